package domain

import "time"

// ActionKind names one of the user-facing actions.
type ActionKind string

const (
	ActionSentiment ActionKind = "sentiment"
	ActionSummary   ActionKind = "summary"
)

// Label is the human readable action name.
func (k ActionKind) Label() string {
	switch k {
	case ActionSentiment:
		return "Sentiment Analysis"
	case ActionSummary:
		return "Webpage Summary"
	default:
		return string(k)
	}
}

// AnalysisRequest captures one user action. Input is free text for
// sentiment and a URL for summaries.
type AnalysisRequest struct {
	Action        ActionKind
	Input         string
	ModelOverride string
}

// AnalysisResult is the canonical response propagated back to a surface.
type AnalysisResult struct {
	Action      ActionKind
	Text        string
	Model       string
	Source      string
	Title       string
	SessionID   string
	Remaining   int
	CompletedAt time.Time
}
