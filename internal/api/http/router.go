package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/mind-engage/eduquiz/internal/auth/middleware"
	"github.com/mind-engage/eduquiz/internal/course"
	"github.com/mind-engage/eduquiz/internal/rbac"
	"github.com/mind-engage/eduquiz/internal/session"
)

type RouterConfig struct {
	Cache    *course.Cache
	Sessions *session.Registry
	Auth     *authmw.AuthService

	AdminUser     string
	AdminPassHash string
	CORSOrigins   []string

	// AccessLog toggles chi's request logger.
	AccessLog bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if cfg.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	// leaves headroom over the course fetch budget
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(cfg.Auth, cfg.AdminUser, cfg.AdminPassHash))

	adminOnly := func(next http.Handler) http.Handler {
		return authmw.JWTMiddleware(cfg.Auth)(rbac.Require("cache:invalidate")(next))
	}
	r.Route("/courses", func(cr chi.Router) {
		MountCourses(cr, cfg.Cache, adminOnly)
	})
	r.Route("/sessions", func(sr chi.Router) {
		MountSessions(sr, cfg.Sessions)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	return r
}
