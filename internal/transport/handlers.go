package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/courtsplit/courtsplit/internal/domain/activity"
	"github.com/courtsplit/courtsplit/internal/domain/allocation"
	"github.com/courtsplit/courtsplit/internal/domain/wizard"
	"github.com/go-chi/chi/v5"
)

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	Costs   allocation.SessionCosts       `json:"costs"`
	Players []allocation.PlayerAttendance `json:"players"`
}

// PlayersRequest is the body of PUT /api/wizard/{id}/players.
type PlayersRequest struct {
	Players []allocation.PlayerAttendance `json:"players"`
}

// ActivityResponse is the body of GET /api/wizard/{id}/activity.
type ActivityResponse struct {
	SessionID string          `json:"session_id"`
	Entries   []ActivityEntry `json:"entries"`
}

// ActivityEntry is one activity log row.
type ActivityEntry struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Summary   string `json:"summary"`
	Details   string `json:"details,omitempty"`
	CreatedAt string `json:"created_at"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	withAdvice := r.URL.Query().Get("advice") != "false"

	calc, err := s.services.Wizard.Calculate(r.Context(), req.Costs, req.Players, withAdvice)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wizard.NewCalculationView(calc, s.formatter))
}

func (s *Server) handleStartWizard(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, http.StatusCreated)(s.services.Wizard.Start(r.Context()))
}

func (s *Server) handleGetWizard(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.Get(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleSubmitCosts(w http.ResponseWriter, r *http.Request) {
	var costs allocation.SessionCosts
	if err := decodeJSON(w, r, &costs); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.SubmitCosts(r.Context(), chi.URLParam(r, "id"), costs))
}

func (s *Server) handleSubmitPlayers(w http.ResponseWriter, r *http.Request) {
	var req PlayersRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.SubmitPlayers(r.Context(), chi.URLParam(r, "id"), req.Players))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.AwaitResults(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.Back(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleStartOver(w http.ResponseWriter, r *http.Request) {
	s.respondSession(w, r, http.StatusOK)(s.services.Wizard.StartOver(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) handleCloseWizard(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Wizard.Close(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	entries, err := s.services.Activity.GetRecentActivity(r.Context(), activity.ListActivityOptions{
		SessionID: &sessionID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := ActivityResponse{SessionID: sessionID, Entries: make([]ActivityEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = ActivityEntry{
			ID:        e.ID,
			Type:      string(e.ActivityType),
			Summary:   e.Summary,
			Details:   e.Details,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// respondSession writes sess as a wizard view, or the error.
func (s *Server) respondSession(w http.ResponseWriter, r *http.Request, status int) func(*wizard.Session, error) {
	return func(sess *wizard.Session, err error) {
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, status, wizard.NewView(sess, s.formatter))
	}
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &wizard.ValidationError{Issues: []wizard.FieldIssue{{Field: name, Message: "Must be a non-negative whole number"}}}
	}
	return n, nil
}
