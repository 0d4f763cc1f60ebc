package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/couchcryptid/cyclone-risk-service/internal/domain"
)

const (
	maxBodyBytes = 1 << 20
	errUpstream  = "upstream service unavailable"
)

type insightRequest struct {
	Prompt string `json:"prompt"`
	City   string `json:"city,omitempty"`
}

type insightResponse struct {
	Reply string `json:"reply"`
}

type tiersResponse struct {
	Tiers   []domain.TierBand         `json:"tiers"`
	Weights map[domain.Factor]float64 `json:"weights"`
}

type statsResponse struct {
	RequestCount int64 `json:"request_count"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	report, err := s.dashboard.Lookup(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var reading domain.Reading
	if err := decodeBody(w, r, &reading); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.dashboard.Assess(r.Context(), reading))
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	reply, err := s.dashboard.Ask(r.Context(), req.Prompt, req.City)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insightResponse{Reply: reply})
}

func (s *Server) handleTiers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tiersResponse{Tiers: domain.Tiers(), Weights: domain.Weights()})
}

func (s *Server) handleLinks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Links())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{RequestCount: s.dashboard.RequestCount()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid request body: expected a single JSON object")
	}
	return nil
}

// statusFor maps dashboard errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyLocation), errors.Is(err, domain.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrWeatherDisabled), errors.Is(err, domain.ErrInsightDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	if status == http.StatusBadGateway {
		// Upstream error text stays in the logs.
		msg = errUpstream
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
