// Package httpapi exposes the analysis actions as a small JSON HTTP service.
// Every client gets its own rate-limited session, identified by a cookie.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/doeshing/bizlens/internal/application/ratelimit"
	"github.com/doeshing/bizlens/internal/application/session"
	"github.com/doeshing/bizlens/internal/domain"
	"github.com/doeshing/bizlens/internal/ports"
	"github.com/doeshing/bizlens/internal/version"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Analyzer runs one action against a session. *analysis.Service satisfies it.
type Analyzer interface {
	Run(ctx context.Context, sess *ratelimit.Session, req domain.AnalysisRequest) (domain.AnalysisResult, error)
}

// Deps holds the handler's collaborators.
type Deps struct {
	Analyzer   Analyzer
	Sessions   *session.Registry
	Clock      ports.Clock
	Logger     ports.Logger
	CookieName string
}

type handler struct {
	Deps
}

// NewHandler returns the bizlens HTTP API.
func NewHandler(deps Deps) http.Handler {
	if deps.CookieName == "" {
		deps.CookieName = domain.DefaultCookieName
	}
	h := &handler{Deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/session", h.handleSession)
		r.Post("/sentiment", h.handleAction(domain.ActionSentiment, func(b actionBody) string { return b.Text }))
		r.Post("/summary", h.handleAction(domain.ActionSummary, func(b actionBody) string { return b.URL }))
	})
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Limit     int    `json:"limit"`
	Window    string `json:"window"`
	Remaining int    `json:"remaining"`
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID(),
		Limit:     sess.Limit(),
		Window:    sess.Window().String(),
		Remaining: sess.Remaining(h.Clock.Now()),
	})
}

type actionBody struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Model string `json:"model,omitempty"`
}

type resultResponse struct {
	Action      string    `json:"action"`
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	Source      string    `json:"source,omitempty"`
	Title       string    `json:"title,omitempty"`
	SessionID   string    `json:"session_id"`
	Remaining   int       `json:"remaining"`
	CompletedAt time.Time `json:"completed_at"`
}

func (h *handler) handleAction(action domain.ActionKind, input func(actionBody) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var body actionBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request", "invalid request body: %v", err)
			return
		}

		sess := h.session(w, r)
		result, err := h.Analyzer.Run(r.Context(), sess, domain.AnalysisRequest{
			Action:        action,
			Input:         input(body),
			ModelOverride: body.Model,
		})
		if err != nil {
			h.writeActionError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resultResponse{
			Action:      string(result.Action),
			Text:        result.Text,
			Model:       result.Model,
			Source:      result.Source,
			Title:       result.Title,
			SessionID:   result.SessionID,
			Remaining:   result.Remaining,
			CompletedAt: result.CompletedAt,
		})
	}
}

// session resolves the caller's session from its cookie, issuing a new
// cookie when the session is new.
func (h *handler) session(w http.ResponseWriter, r *http.Request) *ratelimit.Session {
	var id string
	if c, err := r.Cookie(h.CookieName); err == nil {
		id = c.Value
	}

	sess := h.Sessions.Get(id, h.Clock.Now())
	if sess.ID() != id {
		http.SetCookie(w, &http.Cookie{
			Name:     h.CookieName,
			Value:    sess.ID(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Secure:   r.TLS != nil,
		})
	}
	return sess
}

func (h *handler) writeActionError(w http.ResponseWriter, err error) {
	outcome := domain.Classify(err)
	status := statusFor(outcome)

	var rlErr *domain.RateLimitError
	if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(rlErr.RetryAfter.Seconds()))))
	}

	message := err.Error()
	if outcome == domain.OutcomeInternalError {
		h.Logger.Error("request failed", err, nil)
		message = "internal error"
	}
	httpError(w, status, string(outcome), "%s", message)
}

func statusFor(outcome domain.Outcome) int {
	switch outcome {
	case domain.OutcomeEmptyInput, domain.OutcomeParseFailure:
		return http.StatusUnprocessableEntity
	case domain.OutcomeRateLimited:
		return http.StatusTooManyRequests
	case domain.OutcomeFetchFailure, domain.OutcomeModelFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.Logger.Debug("http request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"duration": time.Since(start).String(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": fmt.Sprintf(format, args...),
			"type":    errType,
		},
	})
}
