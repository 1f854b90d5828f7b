package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	api "github.com/mind-engage/eduquiz/internal/api/http"
	auth "github.com/mind-engage/eduquiz/internal/auth/middleware"
	"github.com/mind-engage/eduquiz/internal/config"
	"github.com/mind-engage/eduquiz/internal/course"
	"github.com/mind-engage/eduquiz/internal/logging"
	"github.com/mind-engage/eduquiz/internal/quiz"
	"github.com/mind-engage/eduquiz/internal/session"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// --- Store ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	defer st.kv.Close()

	// --- Content ---
	source := course.NewHTTPSource(cfg.CoursesURL, cfg.FetchTimeout)
	cache := course.NewCache(st.kv, source,
		course.WithTimeout(cfg.FetchTimeout),
		course.WithLogger(log.WithField("component", "course_cache")),
	)

	// --- Quiz ---
	questions, err := quiz.LoadQuestionsFile(cfg.QuestionsPath)
	if err != nil {
		log.Fatalf("load questions: %v", err)
	}
	opts := []session.RegistryOption{
		session.WithStore(session.NewStore(st.kv)),
		session.WithLogger(log.WithField("component", "sessions")),
	}
	if st.events != nil {
		opts = append(opts, session.WithEvents(st.events))
	}
	sessions, err := session.NewRegistry(questions, opts...)
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}

	// --- Router ---
	handler := api.NewRouter(api.RouterConfig{
		Cache:         cache,
		Sessions:      sessions,
		Auth:          auth.NewAuthService(cfg.AuthHMACSecret),
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
		CORSOrigins:   cfg.CORSOrigins(),
		AccessLog:     true,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":      cfg.HTTPAddr,
			"mode":      cfg.Mode,
			"store":     cfg.StoreDriver,
			"questions": len(questions),
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown")
	}
}
