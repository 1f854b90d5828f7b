package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/eduquiz/internal/course"
)

// Handlers only. The caller applies auth for DELETE.

type coursesResponse struct {
	Courses    []course.Course   `json:"courses"`
	Provenance course.Provenance `json:"provenance"`
	FetchedAt  *time.Time        `json:"fetched_at,omitempty"`
	Warning    string            `json:"warning,omitempty"`
}

// GET /courses
func ListCoursesHandler(cache *course.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := cache.Fetch(r.Context())
		out := coursesResponse{Courses: res.Courses, Provenance: res.Provenance}
		if !res.FetchedAt.IsZero() {
			t := res.FetchedAt.UTC()
			out.FetchedAt = &t
		}
		if res.Diagnostic != nil {
			out.Warning = res.Diagnostic.Error()
		}
		if err != nil {
			out.Warning = err.Error()
			respondJSON(w, statusFor(err), out)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// GET /courses/cache
func CacheStatusHandler(cache *course.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		at, ok, err := cache.LastFetchedAt(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		out := map[string]any{"cached": ok}
		if ok {
			out["last_fetched_at"] = at.UTC()
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// DELETE /courses/cache
func InvalidateCacheHandler(cache *course.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cache.Invalidate(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// MountCourses registers the public course routes; invalidate is wrapped by guard.
func MountCourses(r chi.Router, cache *course.Cache, guard func(http.Handler) http.Handler) {
	r.Get("/", ListCoursesHandler(cache))
	r.Get("/cache", CacheStatusHandler(cache))
	r.With(guard).Delete("/cache", InvalidateCacheHandler(cache))
}
