package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/app"
	"github.com/doeshing/bizlens/internal/infrastructure/cli/commands"
	"github.com/doeshing/bizlens/internal/infrastructure/cli/helpers"
	"github.com/doeshing/bizlens/internal/version"
)

// Options control root command behaviour.
type Options struct {
	Verbose    bool
	ConfigPath string
	Format     string
	// Container, when set, is used instead of building one from flags.
	Container *app.Container
}

// NewRootCmd builds the cobra command tree. The container is assembled after
// flag parsing so --config and --verbose take effect.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	if opts.Format == "" {
		opts.Format = helpers.FormatText
	}
	env := &commands.Env{Container: opts.Container, Format: opts.Format}

	root := &cobra.Command{
		Use:           "bizlens",
		Short:         "Business analytics assistant: review sentiment and webpage summaries",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := helpers.ValidateFormat(env.Format); err != nil {
				return err
			}
			if env.Container != nil {
				return nil
			}
			container, err := app.BuildContainer(cmd.Context(), app.Options{
				Verbose:    opts.Verbose,
				ConfigPath: opts.ConfigPath,
			})
			if err != nil {
				return err
			}
			env.Container = container
			return nil
		},
	}
	root.SetContext(ctx)

	root.PersistentFlags().StringVar(&env.Format, "format", opts.Format, "Output format: text|markdown")
	root.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging on stderr")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", opts.ConfigPath, "Config file (default $XDG_CONFIG_HOME/bizlens/config.yaml)")

	root.AddCommand(
		commands.NewSentimentCommand(env),
		commands.NewSummarizeCommand(env),
		commands.NewInteractiveCommand(env),
		commands.NewServeCommand(env),
		commands.NewMCPCommand(env),
		commands.NewConfigCommand(env),
		commands.NewModelsCommand(env),
		commands.NewInitCommand(env),
		commands.NewDoctorCommand(env),
		commands.NewVersionCommand(),
	)

	return root, nil
}
