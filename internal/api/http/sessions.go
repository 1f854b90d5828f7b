package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/eduquiz/internal/session"
)

// POST /sessions
func CreateSessionHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, v, err := reg.Create(r.Context())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{"id": id, "view": v})
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(reg *session.Registry) http.HandlerFunc { return viewHandler(reg.View) }

// POST /sessions/{sessionID}/answers  { "question_id": 1, "answer": "..." }
func SelectAnswerHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QuestionID *int   `json:"question_id"`
			Answer     string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.QuestionID == nil {
			http.Error(w, "question_id required", http.StatusBadRequest)
			return
		}
		v, err := reg.SelectAnswer(r.Context(), chi.URLParam(r, "sessionID"), *req.QuestionID, req.Answer)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// viewHandler serves a session transition that answers with the new view.
func viewHandler(op func(ctx context.Context, id string) (session.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := op(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		respondJSON(w, http.StatusOK, v)
	}
}

// POST /sessions/{sessionID}/advance
func AdvanceHandler(reg *session.Registry) http.HandlerFunc { return viewHandler(reg.Advance) }

// POST /sessions/{sessionID}/retreat
func RetreatHandler(reg *session.Registry) http.HandlerFunc { return viewHandler(reg.Retreat) }

// POST /sessions/{sessionID}/reset
func ResetHandler(reg *session.Registry) http.HandlerFunc { return viewHandler(reg.Reset) }

// POST /sessions/{sessionID}/submit
func SubmitHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := reg.Submit(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

// GET /sessions/{sessionID}/review
func ReviewHandler(reg *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok, err := reg.Review(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		if !ok {
			http.Error(w, "quiz not submitted", http.StatusConflict)
			return
		}
		respondJSON(w, http.StatusOK, rep)
	}
}

func MountSessions(r chi.Router, reg *session.Registry) {
	r.Post("/", CreateSessionHandler(reg))
	r.Route("/{sessionID}", func(sr chi.Router) {
		sr.Get("/", GetSessionHandler(reg))
		sr.Post("/answers", SelectAnswerHandler(reg))
		sr.Post("/advance", AdvanceHandler(reg))
		sr.Post("/retreat", RetreatHandler(reg))
		sr.Post("/submit", SubmitHandler(reg))
		sr.Post("/reset", ResetHandler(reg))
		sr.Get("/review", ReviewHandler(reg))
	})
}
