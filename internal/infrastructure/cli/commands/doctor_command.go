package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/infrastructure/cli/helpers"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, env)
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, env *Env) error {
	c, err := env.container()
	if err != nil {
		return err
	}
	if c.DoctorService == nil {
		return errors.New(ErrDoctorServiceUnavailable)
	}

	report, err := c.DoctorService.Run(cmd.Context())

	// Display report even if there were errors
	if renderErr := helpers.NewRenderer(cmd.OutOrStdout(), env.Format).HealthReport(report); renderErr != nil {
		return renderErr
	}

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.Failed() {
		return errors.New(ErrDiagnosticsFailed)
	}
	return nil
}
