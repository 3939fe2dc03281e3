package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
)

func envWith(values map[string]string) LookupEnv {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

type capturedRequest struct {
	header http.Header
	body   map[string]interface{}
}

func newModelServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			captured.header = r.Header.Clone()
			if err := json.Unmarshal(raw, &captured.body); err != nil {
				t.Errorf("request body is not JSON: %v", err)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func TestGenerateGeminiFormat(t *testing.T) {
	var captured capturedRequest
	srv := newModelServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"  Positive overall.  "}]}}]}`, &captured)
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:       "gemini-flash",
		Endpoint:   srv.URL,
		AuthEnvVar: "GOOGLE_API_KEY",
		ModelID:    "gemini-1.5-flash",
		APIFormat:  domain.APIFormat{RequestFormat: domain.RequestFormatGemini, AuthHeaderName: "x-goog-api-key"},
	}
	provider, _ := NewFactory(WithLookupEnv(envWith(map[string]string{"GOOGLE_API_KEY": "g-key"}))).ForModel(model)

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{System: "Be brief.", Prompt: "Reviews: great"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "Positive overall." {
		t.Errorf("Text = %q", resp.Text)
	}
	if got := captured.header.Get("x-goog-api-key"); got != "g-key" {
		t.Errorf("x-goog-api-key = %q", got)
	}
	if captured.header.Get("Authorization") != "" {
		t.Error("gemini requests must not send Authorization")
	}

	want := map[string]interface{}{
		"systemInstruction": map[string]interface{}{
			"parts": []interface{}{map[string]interface{}{"text": "Be brief."}},
		},
		"contents": []interface{}{
			map[string]interface{}{
				"role":  "user",
				"parts": []interface{}{map[string]interface{}{"text": "Reviews: great"}},
			},
		},
	}
	if diff := cmp.Diff(want, captured.body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateChatFormat(t *testing.T) {
	var captured capturedRequest
	srv := newModelServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Summary."}}]}`, &captured)
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:       "gpt",
		Endpoint:   srv.URL,
		AuthEnvVar: "OPENAI_API_KEY",
		OrgEnvVar:  "OPENAI_ORG_ID",
		ModelID:    "gpt-4o-mini",
		MaxTokens:  256,
	}
	env := envWith(map[string]string{"OPENAI_API_KEY": "sk-test", "OPENAI_ORG_ID": "org-1"})
	provider, _ := NewFactory(WithLookupEnv(env)).ForModel(model)

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "Summarize"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "Summary." {
		t.Errorf("Text = %q", resp.Text)
	}
	if got := captured.header.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("Authorization = %q", got)
	}
	if got := captured.header.Get("OpenAI-Organization"); got != "org-1" {
		t.Errorf("OpenAI-Organization = %q", got)
	}

	want := map[string]interface{}{
		"model":      "gpt-4o-mini",
		"max_tokens": float64(256),
		"messages": []interface{}{
			map[string]interface{}{"role": "user", "content": "Summarize"},
		},
	}
	if diff := cmp.Diff(want, captured.body); diff != "" {
		t.Errorf("request body mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAnthropicFormat(t *testing.T) {
	var captured capturedRequest
	srv := newModelServer(t, http.StatusOK, `{"content":[{"type":"text","text":"Neutral."}]}`, &captured)
	defer srv.Close()

	model := domain.ModelDefinition{
		Name:       "claude",
		Endpoint:   srv.URL,
		AuthEnvVar: "ANTHROPIC_API_KEY",
		ModelID:    "claude-3-5-sonnet",
		APIFormat: domain.APIFormat{
			AuthHeaderName:    "x-api-key",
			SystemMessageMode: domain.SystemMessageModeSeparate,
			ContentWrapper:    domain.ContentWrapperAnthropic,
			ResponseJSONPath:  domain.AnthropicResponsePath,
			ExtraHeaders:      map[string]string{"anthropic-version": "2023-06-01"},
		},
	}
	provider, _ := NewFactory(WithLookupEnv(envWith(map[string]string{"ANTHROPIC_API_KEY": "a-key"}))).ForModel(model)

	resp, err := provider.Generate(context.Background(), ports.ProviderRequest{System: "Analyst", Prompt: "Reviews"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Text != "Neutral." {
		t.Errorf("Text = %q", resp.Text)
	}
	if captured.header.Get("x-api-key") != "a-key" || captured.header.Get("anthropic-version") != "2023-06-01" {
		t.Errorf("headers = %v", captured.header)
	}
	if captured.body["system"] != "Analyst" {
		t.Errorf("system = %v", captured.body["system"])
	}
	messages, _ := captured.body["messages"].([]interface{})
	if len(messages) != 1 {
		t.Fatalf("messages = %v", captured.body["messages"])
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
		env      map[string]string
		wantIs   error
		wantText string
	}{
		{name: "missing key", status: http.StatusOK, response: `{}`, env: map[string]string{}, wantIs: domain.ErrConfiguration},
		{name: "http error", status: http.StatusTooManyRequests, response: `{"error":"quota"}`, env: map[string]string{"KEY": "k"}, wantText: "HTTP 429"},
		{name: "not json", status: http.StatusOK, response: `<html>`, env: map[string]string{"KEY": "k"}, wantText: "unmarshal JSON"},
		{name: "missing path", status: http.StatusOK, response: `{"choices":[]}`, env: map[string]string{"KEY": "k"}, wantText: "out of bounds"},
		{name: "blank text", status: http.StatusOK, response: `{"choices":[{"message":{"content":"   "}}]}`, env: map[string]string{"KEY": "k"}, wantText: "empty text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newModelServer(t, tt.status, tt.response, nil)
			defer srv.Close()

			model := domain.ModelDefinition{Name: "m", Endpoint: srv.URL, AuthEnvVar: "KEY", ModelID: "m"}
			provider, _ := NewFactory(WithLookupEnv(envWith(tt.env))).ForModel(model)

			_, err := provider.Generate(context.Background(), ports.ProviderRequest{Prompt: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantText)
			}
		})
	}
}

func TestExtractJSONPath(t *testing.T) {
	data := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"parts": []interface{}{map[string]interface{}{"text": "hi"}},
				},
			},
		},
		"count": float64(3),
	}

	if got, err := extractJSONPath(data, domain.GeminiResponsePath); err != nil || got != "hi" {
		t.Fatalf("extractJSONPath() = %q, %v", got, err)
	}
	if _, err := extractJSONPath(data, "count"); err == nil {
		t.Fatal("expected error for non-string leaf")
	}
	if _, err := extractJSONPath(data, "candidates[x]"); err == nil {
		t.Fatal("expected error for bad index")
	}
}

func TestParseJSONPath(t *testing.T) {
	want := []pathPart{
		{kind: "field", value: "content"},
		{kind: "index", value: "0"},
		{kind: "field", value: "text"},
	}
	if diff := cmp.Diff(want, parseJSONPath("content[0].text"), cmp.AllowUnexported(pathPart{})); diff != "" {
		t.Errorf("parseJSONPath mismatch (-want +got):\n%s", diff)
	}
}
