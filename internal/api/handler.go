package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/config"
	"github.com/ai-tools-poll/pollserver/internal/model"
	"github.com/ai-tools-poll/pollserver/internal/service"
)

// user-facing messages
const (
	msgSuccess       = "Thank you! Your response has been recorded!"
	msgEmptyField    = "Please fill in your name and select an option."
	msgUnknownOption = "Please choose one of the listed options."
	msgDuplicate     = "A response under that name has already been recorded."
	msgSaveFailed    = "Error saving your response. Please try again."
	msgLoadFailed    = "Error loading poll results. Please try again later."
)

// PollService represents the poll operations the HTTP layer needs
type PollService interface {
	SubmitResponse(ctx context.Context, name, option, comments string) (*model.Response, error)
	FetchAllResponses(ctx context.Context) ([]model.Response, error)
}

// SubmitRequest represents a poll submission body
type SubmitRequest struct {
	Name     string `json:"name"`
	Option   string `json:"option"`
	Comments string `json:"comments"`
}

// SubmitResult represents the outcome of a submission
type SubmitResult struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Saved   *model.Response `json:"saved,omitempty"`
}

// ResultsPayload represents the current poll state for the results view
type ResultsPayload struct {
	Responses []model.Response `json:"responses"`
	Tally     model.Tally      `json:"tally"`
	Total     int              `json:"total"`
}

// HTTPHandler serves the poll page and its JSON endpoints
type HTTPHandler struct {
	server  *http.Server
	service PollService
	refresh time.Duration
}

// NewHTTPHandler creates the HTTP surface for the poll
func NewHTTPHandler(cfg *config.Config, svc PollService) *HTTPHandler {
	h := &HTTPHandler{
		service: svc,
		refresh: cfg.CacheTTL,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /submit", h.handleSubmit)
	mux.HandleFunc("GET /api/results", h.handleResults)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	h.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      WithRecovery(WithRequestID(WithLogging(mux))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// Start starts an HTTP-server
func (h *HTTPHandler) Start() {
	go func() {
		slog.Info("Starting HTTP server", "address", h.server.Addr)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server failed", "error", err)
		}
	}()
}

// Stop stops an HTTP-server
func (h *HTTPHandler) Stop() error {
	slog.Info("Shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.server.Shutdown(ctx)
}

// handleIndex renders the poll page with the current results baked in.
// A failed read still renders the form; only the results block degrades.
func (h *HTTPHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := newPageData(h.refresh)

	responses, err := h.service.FetchAllResponses(r.Context())
	if err != nil {
		slog.Error("Failed to load responses for page", "error", err)
		data.LoadError = msgLoadFailed
	} else {
		data.setResults(responses)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		slog.Error("Failed to render poll page", "error", err)
	}
}

// handleSubmit accepts a submission as JSON or an HTML form post
func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Failed to parse JSON submission", "error", err)
			ErrorResponse(w, http.StatusBadRequest, "Bad request")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			slog.Error("Failed to parse form submission", "error", err)
			ErrorResponse(w, http.StatusBadRequest, "Bad request")
			return
		}
		req.Name = r.Form.Get("name")
		req.Option = r.Form.Get("option")
		req.Comments = r.Form.Get("comments")
	}

	saved, err := h.service.SubmitResponse(r.Context(), req.Name, req.Option, req.Comments)
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	JSONResponse(w, http.StatusCreated, SubmitResult{
		Status:  "ok",
		Message: msgSuccess,
		Saved:   saved,
	})
}

// writeSubmitError maps service errors onto HTTP statuses. Anything that
// is not a domain error is reported as a generic storage failure.
func (h *HTTPHandler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyField):
		JSONResponse(w, http.StatusBadRequest, SubmitResult{Status: "warning", Message: msgEmptyField})
	case errors.Is(err, service.ErrUnknownOption):
		JSONResponse(w, http.StatusBadRequest, SubmitResult{Status: "warning", Message: msgUnknownOption})
	case errors.Is(err, service.ErrDuplicateName):
		ErrorResponse(w, http.StatusConflict, msgDuplicate)
	default:
		ErrorResponse(w, http.StatusBadGateway, msgSaveFailed)
	}
}

// handleResults serves the current responses and tally for the page's
// refresh loop
func (h *HTTPHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	responses, err := h.service.FetchAllResponses(r.Context())
	if err != nil {
		ErrorResponse(w, http.StatusBadGateway, msgLoadFailed)
		return
	}

	JSONResponse(w, http.StatusOK, ResultsPayload{
		Responses: responses,
		Tally:     model.CountVotes(responses),
		Total:     len(responses),
	})
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
