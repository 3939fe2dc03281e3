package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/app"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

const modelProbePrompt = "Reply with the single word OK."

// NewModelsCommand creates the models command with its subcommands
func NewModelsCommand(env *Env) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect configured language models",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(env),
		newModelsTestCommand(env),
	)

	return modelsCmd
}

// newModelsListCommand creates the 'models list' subcommand
func newModelsListCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				return listModels(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}
}

// newModelsTestCommand creates the 'models test' subcommand
func newModelsTestCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "test [name]",
		Short: "Send a short probe prompt to a model (default model if omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withContainer(env, func(c *app.Container) error {
				return testModel(cmd.Context(), cmd.OutOrStdout(), c, name)
			})
		},
	}
}

// listModels lists all configured models
func listModels(ctx context.Context, out io.Writer, c *app.Container) error {
	cfg, err := c.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tMODEL ID\tFORMAT\tKEY\tDEFAULT")
	for _, model := range cfg.Models {
		defaultMarker := ""
		if cfg.Preferences.DefaultModel == model.Name {
			defaultMarker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			model.Name,
			model.ModelID,
			model.APIFormat.GetRequestFormat(),
			model.AuthEnvVar,
			defaultMarker)
	}
	return tw.Flush()
}

// testModel sends one probe prompt and reports whether text came back
func testModel(ctx context.Context, out io.Writer, c *app.Container, modelName string) error {
	if c.AnalysisService == nil || c.AnalysisService.ProviderFactory == nil {
		return errors.New("provider factory unavailable")
	}

	cfg, err := c.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	model, err := cfg.PickModel(modelName)
	if err != nil {
		return &domain.ConfigError{Field: "models", Reason: err.Error()}
	}

	provider, err := c.AnalysisService.ProviderFactory.ForModel(model)
	if err != nil {
		return fmt.Errorf("failed to create provider for model %s: %w", model.Name, err)
	}

	testCtx, cancel := context.WithTimeout(ctx, domain.DefaultModelTestTimeout)
	defer cancel()

	resp, err := provider.Generate(testCtx, ports.ProviderRequest{Prompt: modelProbePrompt})
	if err != nil {
		return fmt.Errorf("model %s test failed: %w", model.Name, err)
	}

	fmt.Fprintf(out, "Model %s responded: %s\n", model.Name, resp.Text)
	return nil
}
