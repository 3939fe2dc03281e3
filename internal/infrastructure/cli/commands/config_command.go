package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/bizlens/internal/app"
	configapp "github.com/doeshing/bizlens/internal/application/config"
	configinfra "github.com/doeshing/bizlens/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(env *Env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect bizlens configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(env),
		newConfigPathCommand(env),
		newConfigValidateCommand(env),
		newConfigResetCommand(env),
		newConfigDiffCommand(env),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				return showConfiguration(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				if c.ConfigLoader == nil {
					return errors.New(ErrConfigLoaderUnavailable)
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ConfigLoader.Path())
				return nil
			})
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				cfg, err := c.ConfigProvider.Load(cmd.Context())
				if err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				if err := configapp.Validate(cfg); err != nil {
					return fmt.Errorf("configuration validation failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			})
		},
	}
}

// newConfigResetCommand creates the 'config reset' subcommand
func newConfigResetCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				return resetConfigurationToDefaults(cmd.OutOrStdout(), c)
			})
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(env, func(c *app.Container) error {
				return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), c)
			})
		},
	}
}

func withContainer(env *Env, fn func(*app.Container) error) error {
	c, err := env.container()
	if err != nil {
		return err
	}
	return fn(c)
}

// showConfiguration displays the full configuration in YAML format
func showConfiguration(ctx context.Context, out io.Writer, c *app.Container) error {
	cfg, err := c.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// resetConfigurationToDefaults overwrites the config file with the embedded default
func resetConfigurationToDefaults(out io.Writer, c *app.Container) error {
	if c.ConfigLoader == nil {
		return errors.New(ErrConfigLoaderUnavailable)
	}

	defaultConfig, err := c.ConfigLoader.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", c.ConfigLoader.Path())

	data, _ := yaml.Marshal(defaultConfig)
	fmt.Fprint(out, string(data))

	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, c *app.Container) error {
	currentConfig, err := c.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}

	diff := cmp.Diff(defaultConfig, currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}
