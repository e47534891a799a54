package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/lexprep/lexprep/internal/attempt"
	authmw "github.com/lexprep/lexprep/internal/auth/middleware"
	"github.com/lexprep/lexprep/internal/rbac"
	"github.com/lexprep/lexprep/internal/storage"
)

// Deps carries everything the router mounts.
type Deps struct {
	Store       attempt.Store
	Manager     *attempt.Manager
	Auth        *authmw.AuthService
	DB          *sql.DB // login credential lookups
	Blobs       storage.BlobStore
	Log         *zap.Logger
	CORSOrigins []string
}

// NewRouter assembles the full API surface: public login and health
// probes, then the JWT-protected exam and attempt routes.
func NewRouter(d Deps) chi.Router {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.DB))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("exam:view")).
			Get("/exams", ListExamsHandler(d.Store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", GetExamHandler(d.Store))
		pr.With(rbac.Require("exam:import")).
			Post("/exams", ImportExamHandler(d.Store))

		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", CreateAttemptHandler(d.Manager))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", ListAttemptsHandler(d.Store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", GetAttemptHandler(d.Store))
		pr.With(rbac.Require("attempt:answer")).
			Post("/attempts/{attemptID}/answers", SaveAnswerHandler(d.Manager, d.Store))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(d.Manager, d.Store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/review", ReviewHandler(d.Manager, d.Store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/progress", ProgressHandler(d.Manager, d.Store))
		pr.With(rbac.Require("audio:play")).
			Post("/attempts/{attemptID}/audio-plays", AudioPlayHandler(d.Manager, d.Store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/clock", ClockStreamHandler(d.Manager, d.Store, d.Log))

		pr.Route("/assets", func(ar chi.Router) {
			MountAssets(ar, d.Blobs)
		})
	})

	return r
}
