package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/infrastructure/htmldoc"
	"github.com/doeshing/bizlens/internal/ports"
)

type stubConfigProvider struct {
	cfg   domain.Config
	err   error
	calls int
}

func (s *stubConfigProvider) Load(context.Context) (domain.Config, error) {
	s.calls++
	return s.cfg, s.err
}

type stubProviderFactory struct {
	provider *stubProvider
}

func (f *stubProviderFactory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	f.provider.model = model
	return f.provider, nil
}

type stubProvider struct {
	model    domain.ModelDefinition
	text     string
	err      error
	requests []ports.ProviderRequest
}

func (p *stubProvider) Name() string                  { return "stub" }
func (p *stubProvider) Model() domain.ModelDefinition { return p.model }
func (p *stubProvider) Generate(_ context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	p.requests = append(p.requests, req)
	if p.err != nil {
		return ports.ProviderResponse{}, p.err
	}
	return ports.ProviderResponse{Text: p.text}, nil
}

type stubFetcher struct {
	page  domain.FetchedPage
	err   error
	calls int
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (domain.FetchedPage, error) {
	f.calls++
	if f.err != nil {
		return domain.FetchedPage{}, f.err
	}
	page := f.page
	page.URL = url
	return page, nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{})        {}
func (noopLogger) Info(string, map[string]interface{})         {}
func (noopLogger) Warn(string, map[string]interface{})         {}
func (noopLogger) Error(string, error, map[string]interface{}) {}

type fixture struct {
	svc      *Service
	config   *stubConfigProvider
	provider *stubProvider
	fetcher  *stubFetcher
	clock    *fakeClock
}

func newFixture() *fixture {
	cfg := domain.Config{
		Preferences: domain.Preferences{DefaultModel: "gemini-flash"},
		Prompts: domain.PromptSettings{
			System:    "Be brief.",
			Sentiment: "Reviews: --- {{.Input}}",
			Summary:   "Page {{.Title}} ({{.URL}}): --- {{.Input}}",
		},
		Models: []domain.ModelDefinition{{Name: "gemini-flash", ModelID: "gemini-1.5-flash"}},
	}
	f := &fixture{
		config:   &stubConfigProvider{cfg: cfg},
		provider: &stubProvider{text: "Positive"},
		fetcher: &stubFetcher{page: domain.FetchedPage{
			ContentType: "text/html",
			Body:        []byte("<html><head><title>Q3</title></head><script>track()</script><p>Sales  rose</p></html>"),
		}},
		clock: &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = &Service{
		ConfigProvider:  f.config,
		ProviderFactory: &stubProviderFactory{provider: f.provider},
		Fetcher:         f.fetcher,
		Parser:          htmldoc.NewParser(),
		Clock:           f.clock,
		Logger:          noopLogger{},
	}
	return f
}

func TestEmptyInputSkipsLimiterAndModel(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t "} {
		f := newFixture()
		sess := ratelimit.NewSession("s", 5, time.Hour)

		for _, action := range []domain.ActionKind{domain.ActionSentiment, domain.ActionSummary} {
			_, err := f.svc.Run(context.Background(), sess, domain.AnalysisRequest{Action: action, Input: input})
			if !errors.Is(err, domain.ErrEmptyInput) {
				t.Fatalf("%s %q: error = %v, want ErrEmptyInput", action, input, err)
			}
		}
		if sess.Remaining(f.clock.now) != 5 || len(sess.Usage()) != 0 {
			t.Fatal("empty input must not touch the session")
		}
		if len(f.provider.requests) != 0 || f.fetcher.calls != 0 || f.config.calls != 0 {
			t.Fatal("empty input must not reach config, fetcher or model")
		}
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	f := newFixture()
	sess := ratelimit.NewSession("s", 5, time.Hour)

	result, err := f.svc.AnalyzeSentiment(context.Background(), sess, "  Great product!  ")
	if err != nil {
		t.Fatalf("AnalyzeSentiment() error = %v", err)
	}
	if result.Text != "Positive" || result.Model != "gemini-flash" || result.Action != domain.ActionSentiment {
		t.Errorf("result = %+v", result)
	}
	if result.Remaining != 4 || result.SessionID != "s" {
		t.Errorf("Remaining = %d, SessionID = %q", result.Remaining, result.SessionID)
	}

	req := f.provider.requests[0]
	if req.Prompt != "Reviews: --- Great product!" || req.System != "Be brief." {
		t.Errorf("request = %+v", req)
	}
	if len(sess.Usage()) != 1 {
		t.Errorf("usage = %v", sess.Usage())
	}
}

func TestSummarizeWebpage(t *testing.T) {
	f := newFixture()
	sess := ratelimit.NewSession("s", 5, time.Hour)

	result, err := f.svc.SummarizeWebpage(context.Background(), sess, "https://example.com/q3")
	if err != nil {
		t.Fatalf("SummarizeWebpage() error = %v", err)
	}
	if result.Title != "Q3" || result.Source != "https://example.com/q3" {
		t.Errorf("result = %+v", result)
	}

	want := "Page Q3 (https://example.com/q3): --- Q3\nSales\nrose"
	if got := f.provider.requests[0].Prompt; got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
	if strings.Contains(f.provider.requests[0].Prompt, "track()") {
		t.Error("script content leaked into the prompt")
	}
}

func TestFetchFailureNeverReachesModel(t *testing.T) {
	f := newFixture()
	f.fetcher.err = &domain.FetchError{URL: "https://example.com", StatusCode: 503}
	sess := ratelimit.NewSession("s", 5, time.Hour)

	_, err := f.svc.SummarizeWebpage(context.Background(), sess, "https://example.com")
	if !errors.Is(err, domain.ErrFetchFailure) {
		t.Fatalf("error = %v, want fetch failure", err)
	}
	if len(f.provider.requests) != 0 {
		t.Fatal("model must not be invoked after a fetch failure")
	}
	if len(sess.Usage()) != 0 || sess.Remaining(f.clock.now) != 5 {
		t.Fatal("failed action must not consume quota")
	}
}

func TestUnreadablePageIsParseFailure(t *testing.T) {
	f := newFixture()
	f.fetcher.page.Body = []byte("<script>only()</script>")
	sess := ratelimit.NewSession("s", 5, time.Hour)

	_, err := f.svc.SummarizeWebpage(context.Background(), sess, "https://example.com")
	if domain.Classify(err) != domain.OutcomeParseFailure {
		t.Fatalf("error = %v, want parse failure", err)
	}
	if len(f.provider.requests) != 0 {
		t.Fatal("model must not be invoked without text")
	}
}

func TestModelFailureReleasesSlot(t *testing.T) {
	f := newFixture()
	f.provider.err = errors.New("HTTP 500: internal")
	sess := ratelimit.NewSession("s", 1, time.Hour)

	_, err := f.svc.AnalyzeSentiment(context.Background(), sess, "reviews")
	if !errors.Is(err, domain.ErrModelInvocation) {
		t.Fatalf("error = %v, want model invocation failure", err)
	}
	if sess.Remaining(f.clock.now) != 1 {
		t.Fatal("failed model call must release its slot")
	}
}

func TestMissingKeyStaysConfigurationError(t *testing.T) {
	f := newFixture()
	f.provider.err = &domain.ConfigError{Field: "GOOGLE_API_KEY", Reason: "not set"}
	sess := ratelimit.NewSession("s", 1, time.Hour)

	_, err := f.svc.AnalyzeSentiment(context.Background(), sess, "reviews")
	if domain.Classify(err) != domain.OutcomeConfigError {
		t.Fatalf("Classify() = %s, want config_error", domain.Classify(err))
	}
}

func TestRateLimitEnforcedAcrossActions(t *testing.T) {
	f := newFixture()
	sess := ratelimit.NewSession("s", 2, time.Hour)
	ctx := context.Background()

	if _, err := f.svc.AnalyzeSentiment(ctx, sess, "one"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.SummarizeWebpage(ctx, sess, "https://example.com"); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.AnalyzeSentiment(ctx, sess, "three")
	var rlErr *domain.RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error = %v, want RateLimitError", err)
	}
	if len(f.provider.requests) != 2 {
		t.Fatalf("model calls = %d, want 2", len(f.provider.requests))
	}

	f.clock.now = f.clock.now.Add(time.Hour)
	if _, err := f.svc.AnalyzeSentiment(ctx, sess, "after window"); err != nil {
		t.Fatalf("after the window: %v", err)
	}
}

func TestBadPromptTemplate(t *testing.T) {
	f := newFixture()
	f.config.cfg.Prompts.Sentiment = "{{.Input"
	sess := ratelimit.NewSession("s", 1, time.Hour)

	_, err := f.svc.AnalyzeSentiment(context.Background(), sess, "reviews")
	if domain.Classify(err) != domain.OutcomeConfigError {
		t.Fatalf("error = %v, want config error", err)
	}
	if sess.Remaining(f.clock.now) != 1 {
		t.Fatal("slot must be released")
	}
}

func TestUnknownModelOverride(t *testing.T) {
	f := newFixture()
	sess := ratelimit.NewSession("s", 1, time.Hour)

	_, err := f.svc.Run(context.Background(), sess, domain.AnalysisRequest{
		Action: domain.ActionSentiment, Input: "x", ModelOverride: "missing",
	})
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("error = %v, want configuration error", err)
	}
}

func TestRenderPrompt(t *testing.T) {
	got, err := renderPrompt("p", "", promptData{Input: "raw"})
	if err != nil || got != "raw" {
		t.Fatalf("empty template: %q, %v", got, err)
	}
	if err := ValidatePrompt("p", "{{.Missing}}"); err == nil {
		t.Fatal("unknown field should fail validation")
	}
	if err := ValidatePrompt("p", "Text: {{.Input}} from {{.URL}}"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}
