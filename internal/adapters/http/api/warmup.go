package api

import (
	"errors"
	"net/http"

	"github.com/okian/crossjudge/internal/adapters/mq/queue"
)

type warmupRequest struct {
	Texts []string `json:"texts"`
}

type warmupResponse struct {
	Status string `json:"status"`
	Queued int    `json:"queued"`
}

// handleWarmup handles POST /v1/warmup.
func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	var req warmupRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing texts"))
		return
	}
	n, err := s.deps.Warmup(r.Context(), req.Texts)
	if err != nil {
		if errors.Is(err, queue.ErrFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", errors.Join(ErrBackpressure, err))
			return
		}
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
		return
	}
	writeJSON(w, http.StatusAccepted, warmupResponse{Status: "accepted", Queued: n})
}
