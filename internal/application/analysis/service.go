// Package analysis orchestrates one user action end to end: validation,
// admission, page retrieval, prompt rendering and the model call.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/application/textextract"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

// Service runs sentiment and summary actions against a session.
type Service struct {
	ConfigProvider  ports.ConfigProvider
	ProviderFactory ports.ProviderFactory
	Fetcher         ports.Fetcher
	Parser          ports.DocumentParser
	Articles        ports.ArticleExtractor
	PDF             ports.PDFTextExtractor
	Clock           ports.Clock
	Logger          ports.Logger
}

// AnalyzeSentiment classifies the sentiment of pasted reviews.
func (s *Service) AnalyzeSentiment(ctx context.Context, sess *ratelimit.Session, reviews string) (domain.AnalysisResult, error) {
	return s.Run(ctx, sess, domain.AnalysisRequest{Action: domain.ActionSentiment, Input: reviews})
}

// SummarizeWebpage fetches url and summarizes its readable text.
func (s *Service) SummarizeWebpage(ctx context.Context, sess *ratelimit.Session, url string) (domain.AnalysisResult, error) {
	return s.Run(ctx, sess, domain.AnalysisRequest{Action: domain.ActionSummary, Input: url})
}

// Run processes a single action. Empty input is rejected before the session
// is consulted. The session slot is committed only when the model returns text.
func (s *Service) Run(ctx context.Context, sess *ratelimit.Session, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return domain.AnalysisResult{}, domain.ErrEmptyInput
	}

	if s.ConfigProvider == nil || s.ProviderFactory == nil || s.Clock == nil || s.Logger == nil || sess == nil {
		return domain.AnalysisResult{}, errors.New("analysis.Service dependencies not satisfied")
	}
	if req.Action == domain.ActionSummary && (s.Fetcher == nil || s.Parser == nil) {
		return domain.AnalysisResult{}, errors.New("analysis.Service has no fetcher or parser for summaries")
	}

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: load config: %w", domain.ErrConfiguration, err)
	}

	modelDef, err := cfg.PickModel(req.ModelOverride)
	if err != nil {
		return domain.AnalysisResult{}, &domain.ConfigError{Field: "preferences.default_model", Reason: err.Error()}
	}

	reservation, err := sess.Reserve(s.Clock.Now())
	if err != nil {
		s.Logger.Warn("action denied by rate limiter", map[string]interface{}{
			"action": string(req.Action),
			"limit":  sess.Limit(),
			"window": sess.Window().String(),
		})
		return domain.AnalysisResult{}, err
	}

	result, err := s.perform(ctx, cfg, modelDef, req.Action, input)
	if err != nil {
		reservation.Release()
		s.logFailure(req.Action, err)
		return domain.AnalysisResult{}, err
	}
	reservation.Commit()

	completed := s.Clock.Now()
	result.SessionID = sess.ID()
	result.Remaining = sess.Remaining(completed)
	result.CompletedAt = completed

	s.Logger.Info("action completed", map[string]interface{}{
		"action":    string(req.Action),
		"model":     modelDef.Name,
		"remaining": result.Remaining,
	})
	return result, nil
}

func (s *Service) perform(ctx context.Context, cfg domain.Config, modelDef domain.ModelDefinition, action domain.ActionKind, input string) (domain.AnalysisResult, error) {
	result := domain.AnalysisResult{Action: action, Model: modelDef.Name}

	var (
		prompt string
		err    error
	)
	switch action {
	case domain.ActionSentiment:
		prompt, err = renderPrompt("prompts.sentiment", cfg.Prompts.Sentiment, promptData{Input: input})
	case domain.ActionSummary:
		var doc domain.ScrapedDocument
		doc, err = s.scrape(ctx, cfg, input)
		if err != nil {
			return result, err
		}
		result.Source = doc.URL
		result.Title = doc.Title
		prompt, err = renderPrompt("prompts.summary", cfg.Prompts.Summary, promptData{Input: doc.Text, Title: doc.Title, URL: doc.URL})
	default:
		return result, fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		return result, err
	}

	text, err := s.invoke(ctx, cfg, modelDef, prompt)
	if err != nil {
		return result, err
	}
	result.Text = text
	return result, nil
}

// scrape fetches the page and reduces it to readable text. Fetch failures are
// terminal; nothing is retried.
func (s *Service) scrape(ctx context.Context, cfg domain.Config, url string) (domain.ScrapedDocument, error) {
	s.Logger.Debug("fetching page", map[string]interface{}{"url": url})

	page, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.ScrapedDocument{}, err
	}

	extractor := textextract.NewExtractor(s.Parser, s.Articles, s.PDF, cfg.GetFetchMode())
	doc, err := extractor.Extract(page)
	if err != nil {
		return domain.ScrapedDocument{}, err
	}

	s.Logger.Debug("page extracted", map[string]interface{}{
		"url":          doc.URL,
		"content_type": doc.ContentType,
		"chars":        len(doc.Text),
	})
	return doc, nil
}

func (s *Service) invoke(ctx context.Context, cfg domain.Config, modelDef domain.ModelDefinition, prompt string) (string, error) {
	provider, err := s.ProviderFactory.ForModel(modelDef)
	if err != nil {
		return "", fmt.Errorf("%w: provider init: %w", domain.ErrModelInvocation, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.GetTimeout())
	defer cancel()

	s.Logger.Info("calling provider", map[string]interface{}{
		"provider": provider.Name(),
		"model":    modelDef.ModelID,
	})

	resp, err := provider.Generate(callCtx, ports.ProviderRequest{
		System: cfg.Prompts.System,
		Prompt: prompt,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrModelInvocation, err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrModelInvocation)
	}
	return text, nil
}

func (s *Service) logFailure(action domain.ActionKind, err error) {
	fields := map[string]interface{}{
		"action":  string(action),
		"outcome": string(domain.Classify(err)),
	}
	if domain.Classify(err) == domain.OutcomeInternalError {
		s.Logger.Error("action failed", err, fields)
		return
	}
	fields["error"] = err.Error()
	s.Logger.Warn("action failed", fields)
}
