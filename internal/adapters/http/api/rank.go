package api

import (
	"errors"
	"net/http"

	"github.com/okian/crossjudge/internal/domain/model"
	"github.com/okian/crossjudge/pkg/logger"
)

type rankedMatch struct {
	model.MatchResult
	Explanation string `json:"explanation"`
}

type rankResponse struct {
	QueryID string        `json:"query_id"`
	Results []rankedMatch `json:"results"`
}

type compareRequest struct {
	Query     model.Problem `json:"query"`
	Candidate model.Problem `json:"candidate"`
	// Semantic is an optional embedding similarity in [0,100].
	Semantic *int `json:"semantic,omitempty"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// handleRank handles POST /v1/rank with a problem body.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var q model.Problem
	if err := decode(w, r, &q); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	results, err := s.deps.Rank(r.Context(), q)
	if err != nil {
		if isInvalidProblem(err) {
			writeError(w, http.StatusBadRequest, "invalid_problem", err)
			return
		}
		s.logger.Error(r.Context(), "rank failed", logger.String("request_id", RequestIDFrom(r.Context())), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	out := rankResponse{QueryID: q.ID, Results: make([]rankedMatch, len(results))}
	for i, m := range results {
		out.Results[i] = rankedMatch{MatchResult: m, Explanation: s.deps.Explain(m.Breakdown)}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCompare handles POST /v1/compare with a query and one candidate.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	m, err := s.deps.Compare(r.Context(), req.Query, req.Candidate, req.Semantic)
	if err != nil {
		if isInvalidProblem(err) {
			writeError(w, http.StatusBadRequest, "invalid_problem", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rankedMatch{MatchResult: m, Explanation: s.deps.Explain(m.Breakdown)})
}

func isInvalidProblem(err error) bool {
	return errors.Is(err, model.ErrMissingID) || errors.Is(err, model.ErrMissingTitle)
}

// handleExplain handles POST /v1/explain with a breakdown body.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var bd model.Breakdown
	if err := decode(w, r, &bd); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{Explanation: s.deps.Explain(bd)})
}
