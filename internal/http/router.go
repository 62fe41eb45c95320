package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/studioflow/internal/http/actor"
	"github.com/MrJamesThe3rd/studioflow/internal/http/automation"
	"github.com/MrJamesThe3rd/studioflow/internal/http/document"
	"github.com/MrJamesThe3rd/studioflow/internal/http/expense"
	"github.com/MrJamesThe3rd/studioflow/internal/http/project"
)

type Options struct {
	CORSOrigins []string
	Timeout     time.Duration
	Actors      *actor.Resolver
}

func New(
	opts Options,
	documentsV1 *document.Handler,
	projectsV1 *project.Handler,
	expensesV1 *expense.Handler,
	automationsV1 *automation.Handler,
) http.Handler {
	if opts.Actors == nil {
		opts.Actors = actor.NewResolver("")
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", actor.HeaderUserID},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(opts.Actors.Middleware)

		r.Route("/documents", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			documentsV1.Routes(r)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			projectsV1.Routes(r)
		})

		r.Route("/expenses", expensesV1.Routes)
		r.Route("/automations", automationsV1.Routes)
	})

	return router
}
