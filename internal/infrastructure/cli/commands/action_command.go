package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/app"
	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/infrastructure/cli/helpers"
)

// NewSentimentCommand creates the sentiment command.
func NewSentimentCommand(env *Env) *cobra.Command {
	var (
		file  string
		model string
	)

	cmd := &cobra.Command{
		Use:   "sentiment [text...]",
		Short: "Classify the sentiment of customer reviews",
		Long: `Classify the sentiment of customer reviews.

Reviews are taken from the arguments, from --file, or from stdin when the
only argument (or --file) is "-".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := helpers.ReadActionInput(cmd.InOrStdin(), file, args)
			if err != nil {
				return err
			}
			return runOneShot(cmd, env, domain.AnalysisRequest{
				Action:        domain.ActionSentiment,
				Input:         input,
				ModelOverride: model,
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read reviews from a file (- for stdin)")
	cmd.Flags().StringVar(&model, "model", "", "Model name to use instead of the default")
	return cmd
}

// NewSummarizeCommand creates the summarize command.
func NewSummarizeCommand(env *Env) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Fetch a webpage and summarize its text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(cmd, env, domain.AnalysisRequest{
				Action:        domain.ActionSummary,
				Input:         args[0],
				ModelOverride: model,
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Model name to use instead of the default")
	return cmd
}

// runOneShot runs a single action in a fresh session and prints the result.
func runOneShot(cmd *cobra.Command, env *Env, req domain.AnalysisRequest) error {
	c, err := env.container()
	if err != nil {
		return err
	}
	cfg, err := actionConfig(cmd.Context(), c)
	if err != nil {
		return err
	}

	result, err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), c, newSession(cfg), req)
	if err != nil {
		return err
	}
	return helpers.NewRenderer(cmd.OutOrStdout(), env.Format).Result(result)
}

func runWithSpinner(ctx context.Context, status io.Writer, c *app.Container, sess *ratelimit.Session, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	spinner := helpers.NewSpinner(status, req.Action.Label())
	spinner.Start()
	defer spinner.Stop()
	return c.AnalysisService.Run(ctx, sess, req)
}
