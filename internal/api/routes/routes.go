package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/hsm-gustavo/job-board/docs"
	"github.com/hsm-gustavo/job-board/internal/api/auth"
	"github.com/hsm-gustavo/job-board/internal/api/health"
	"github.com/hsm-gustavo/job-board/internal/api/httpx"
	"github.com/hsm-gustavo/job-board/internal/api/job"
	"github.com/hsm-gustavo/job-board/internal/api/user"
	"github.com/hsm-gustavo/job-board/internal/db"
	"github.com/hsm-gustavo/job-board/internal/logging"
)

type Deps struct {
	AllowedOrigins []string
	Log            *logging.SlogLogger
	Tokens         auth.Verifier
	Auth           *auth.AuthService
	Users          user.Finder
	Jobs           job.JobService
	DB             health.Pinger
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // max time in seconds for OPTIONS preflight response cache
	})

	r.Use(corsMiddleware.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: d.Log.StdLogger(), NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(2 * time.Minute))

	rs := httpx.NewResponder(d.Log)

	// init handlers
	authHandler := auth.NewAuthHandler(d.Auth, rs)
	userHandler := user.NewHandler(d.Users, rs)
	jobHandler := job.NewHandler(d.Jobs, rs)
	healthHandler := health.NewHandler(d.DB, rs)

	authenticate := auth.Authenticate(d.Tokens, rs)
	recruiterOnly := auth.Require(rs, auth.RequireRole(db.RoleRecruiter))

	r.Get("/health", healthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/users", func(r chi.Router) {
			// public auth routes
			r.Post("/register", authHandler.Register)
			r.Post("/register/client", authHandler.RegisterClient)
			r.Post("/login", authHandler.Login)

			r.With(authenticate).Get("/me", userHandler.Me)
		})

		r.Route("/jobs/jobposts", func(r chi.Router) {
			// public job routes
			r.Get("/", jobHandler.ListJobPosts)
			r.Get("/{id}", jobHandler.GetJobPost)
			r.Post("/{id}/applications", jobHandler.SubmitApplication)

			// recruiter routes; ownership is checked against the stored post
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(recruiterOnly)

				r.Post("/", jobHandler.CreateJobPost)
				r.Put("/{id}", jobHandler.UpdateJobPost)
				r.Delete("/{id}", jobHandler.DeleteJobPost)
				r.Get("/{id}/applications", jobHandler.ListApplications)
				r.Get("/{id}/applications/{applicationId}/resume", jobHandler.DownloadResume)
			})
		})
	})

	// init swagger
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.WrapHandler)

	return r
}
