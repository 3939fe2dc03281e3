// Package mcpserver exposes the analysis actions as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
	"github.com/doeshing/bizlens/internal/version"
)

// Analyzer runs one action against a session. *analysis.Service satisfies it.
type Analyzer interface {
	Run(ctx context.Context, sess *ratelimit.Session, req domain.AnalysisRequest) (domain.AnalysisResult, error)
}

// Deps holds dependencies for the MCP server. One server process is one
// session, so every tool call shares Session.
type Deps struct {
	Analyzer Analyzer
	Session  *ratelimit.Session
	Logger   ports.Logger
}

// New creates an MCP server with the bizlens tools registered.
func New(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"bizlens",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("bizlens analyzes customer review sentiment and summarizes webpages with a hosted language model."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("analyze_sentiment",
			mcp.WithDescription("Classify the overall sentiment of customer reviews and list their recurring themes."),
			mcp.WithString("text", mcp.Description("The reviews to analyze"), mcp.Required()),
		),
		actionHandler(deps, domain.ActionSentiment, "text"),
	)

	s.AddTool(
		mcp.NewTool("summarize_webpage",
			mcp.WithDescription("Fetch a webpage and summarize its key points."),
			mcp.WithString("url", mcp.Description("The http(s) URL to summarize"), mcp.Required()),
		),
		actionHandler(deps, domain.ActionSummary, "url"),
	)

	return s
}

// Serve runs the server on the given stdio streams until ctx is cancelled.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s).Listen(ctx, in, out)
}

// actionHandler reports action failures as tool errors so the client sees
// them as results, not protocol errors.
func actionHandler(deps Deps, action domain.ActionKind, arg string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		input, err := req.RequireString(arg)
		if err != nil {
			return toolError(fmt.Sprintf("%s is required", arg)), nil
		}

		result, err := deps.Analyzer.Run(ctx, deps.Session, domain.AnalysisRequest{Action: action, Input: input})
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Warn("mcp tool failed", map[string]interface{}{
					"tool":    req.Params.Name,
					"outcome": string(domain.Classify(err)),
				})
			}
			return toolError(fmt.Sprintf("%s: %v", domain.Classify(err), err)), nil
		}

		return toolText(formatResult(result)), nil
	}
}

func formatResult(result domain.AnalysisResult) string {
	var b strings.Builder
	if result.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", result.Title)
	}
	b.WriteString(result.Text)
	fmt.Fprintf(&b, "\n\n(model %s, %d action(s) left in this window)", result.Model, result.Remaining)
	return b.String()
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
