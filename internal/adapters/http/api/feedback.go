package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
)

type feedbackRequest struct {
	QueryID     string               `json:"query_id"`
	CandidateID string               `json:"candidate_id"`
	Status      model.FeedbackStatus `json:"status"`
}

func (f feedbackRequest) validate() error {
	switch {
	case strings.TrimSpace(f.QueryID) == "":
		return errors.New("missing query_id")
	case strings.TrimSpace(f.CandidateID) == "":
		return errors.New("missing candidate_id")
	case !f.Status.Valid():
		return model.ErrInvalidStatus
	}
	return nil
}

type ackResponse struct {
	Status string `json:"status"`
}

// handlePutFeedback handles PUT /v1/feedback.
func (s *Server) handlePutFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := s.deps.RecordFeedback(r.Context(), req.QueryID, req.CandidateID, req.Status); err != nil {
		s.logger.Error(r.Context(), "record feedback failed", logger.String("request_id", RequestIDFrom(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "saved"})
}

// handleFeedbackStats handles GET /v1/feedback/stats.
func (s *Server) handleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.FeedbackStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleClearFeedback handles DELETE /v1/feedback.
func (s *Server) handleClearFeedback(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.ClearFeedback(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
