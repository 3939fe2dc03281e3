package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/app"
)

// NewInitCommand creates the init command, which writes the default
// configuration file.
func NewInitCommand(env *Env) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default bizlens configuration",
		Long: `Write the default bizlens configuration.

After initialization:
  1. Set GOOGLE_API_KEY (or the auth_env_var of your chosen model)
  2. Adjust rate_limit, fetch and prompts in the config file if needed
  3. Run 'bizlens doctor' to verify your setup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				if c.ConfigLoader == nil {
					return errors.New(ErrConfigLoaderUnavailable)
				}
				out := cmd.OutOrStdout()
				if c.ConfigLoader.Exists() && !force {
					fmt.Fprintf(out, MsgConfigExists, c.ConfigLoader.Path())
					return nil
				}
				if _, err := c.ConfigLoader.Reset(); err != nil {
					return fmt.Errorf("failed to write configuration: %w", err)
				}
				fmt.Fprintf(out, MsgConfigWritten, c.ConfigLoader.Path())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}
