package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	api "github.com/mind-engage/quizpack/internal/api/http"
	auth "github.com/mind-engage/quizpack/internal/auth/middleware"
	"github.com/mind-engage/quizpack/internal/config"
	"github.com/mind-engage/quizpack/internal/db"
	"github.com/mind-engage/quizpack/internal/history"
	"github.com/mind-engage/quizpack/internal/logging"
	"github.com/mind-engage/quizpack/internal/metrics"
	"github.com/mind-engage/quizpack/internal/storage"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := logging.New("quizpack-gateway", "development")
		bootLogger.Fatal().Err(err).Msg("config")
	}
	logger := logging.New("quizpack-gateway", cfg.Env)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("db open failed")
	}
	defer dbh.Close()
	hist := history.NewSQLStore(dbh)

	bs, err := storage.NewFSStore(cfg.OutputBasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("output store")
	}

	rec := metrics.New(prometheus.DefaultRegisterer)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, logging.RequestLogger(logger), middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition", "ETag", api.HeaderConversion, api.HeaderWarnings, api.HeaderSkipped},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc))
	}

	r.Group(func(pr chi.Router) {
		if cfg.EnableAuth {
			pr.Use(auth.JWTMiddleware(authSvc))
		}
		api.Routes(pr, hist, bs, rec, cfg.MaxUploadBytes, cfg.TrueFalseHeuristic)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Str("db", cfg.DBDriver).Bool("auth", cfg.EnableAuth).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
