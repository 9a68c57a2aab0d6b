package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

// Routes builds the full API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(h.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(limitBody)

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)

	r.Get("/", h.welcome)
	r.Get("/health", h.health)
	r.Get(docsPath, h.docsUI)
	r.Get(docsPath+"/", h.docsUI)
	r.Get(docsPath+"/openapi.json", h.openAPI)

	// second binding of the GitHub flow
	r.Get("/login", h.oauthRedirect)
	r.Get("/auth/github/callback", h.oauthCallback(rootOAuthMessages))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)
			r.Post("/logout", h.logout)
			r.Get("/github", h.oauthRedirect)
			r.Get("/github/callback", h.oauthCallback(apiOAuthMessages))
		})

		r.Route("/students", records[models.Student, models.StudentInput]{h: h, svc: h.students, msg: studentMessages}.routes)
		r.Route("/courses", records[models.Course, models.CourseInput]{h: h, svc: h.courses, msg: courseMessages}.routes)
	})

	return r
}
