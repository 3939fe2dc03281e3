package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/infrastructure/cli/helpers"
)

// NewInteractiveCommand creates the interactive command. All actions in one
// run share a single rate-limited session.
func NewInteractiveCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Run actions from a menu within one session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, env)
		},
	}
}

func runInteractive(cmd *cobra.Command, env *Env) error {
	c, err := env.container()
	if err != nil {
		return err
	}
	cfg, err := actionConfig(cmd.Context(), c)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sess := newSession(cfg)
	prompter := helpers.NewPrompter(cmd.InOrStdin(), out)
	renderer := helpers.NewRenderer(out, env.Format)

	fmt.Fprintf(out, "BizLens session %s: %d action(s) per %s\n", sess.ID(), sess.Limit(), sess.Window())

	for {
		fmt.Fprint(out, menuText)
		choice, err := prompter.PromptForChoice(menuPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var req domain.AnalysisRequest
		switch strings.ToLower(choice) {
		case "1", "sentiment":
			reviews, err := prompter.PromptForBlock(reviewPrompt)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			req = domain.AnalysisRequest{Action: domain.ActionSentiment, Input: reviews}
		case "2", "summary", "summarize":
			url, err := prompter.PromptForChoice(urlPrompt)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			req = domain.AnalysisRequest{Action: domain.ActionSummary, Input: url}
		case "3", "status":
			fmt.Fprintf(out, "Remaining this window: %d of %d\n", sess.Remaining(c.Clock.Now()), sess.Limit())
			continue
		case "q", "quit", "exit":
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(out, "Unknown choice %q\n", choice)
			continue
		}

		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}

		result, err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), c, sess, req)
		if err != nil {
			renderer.Failure(err)
			continue
		}
		if err := renderer.Result(result); err != nil {
			return err
		}
	}
}
