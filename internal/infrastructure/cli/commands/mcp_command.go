package commands

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/infrastructure/mcpserver"
)

// NewMCPCommand creates the mcp command. The process serves one session on
// stdin/stdout until the client disconnects.
func NewMCPCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analysis tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := env.container()
			if err != nil {
				return err
			}
			cfg, err := actionConfig(cmd.Context(), c)
			if err != nil {
				return err
			}

			s := mcpserver.New(mcpserver.Deps{
				Analyzer: c.AnalysisService,
				Session:  newSession(cfg),
				Logger:   c.Logger,
			})
			return mcpserver.Serve(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
