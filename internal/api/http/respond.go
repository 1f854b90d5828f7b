package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/eduquiz/internal/course"
	"github.com/mind-engage/eduquiz/internal/quiz"
	"github.com/mind-engage/eduquiz/internal/session"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusClientClosedRequest reports a request the client gave up on.
const statusClientClosedRequest = 499

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrUnknownQuestion):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, course.ErrNoCachedData):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
