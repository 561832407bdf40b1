package main

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openapiYAML []byte

// routes wires middlewares and endpoints.
func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	// Pages.
	r.Get("/", a.handleHome)
	r.Get("/eligibility", a.handleEligibilityPage)
	r.Post("/eligibility", a.handleEligibilityForm)
	r.Get("/results/{landSize}", a.handleResultsPage)
	r.Get("/results/{landSize}/report.pdf", a.handleReportPDF)
	r.Get("/dashboard", a.handleDashboard)

	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		api.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
			w.Header().Set("Cache-Control", "public, max-age=60")
			_, _ = w.Write(openapiYAML)
		})
		api.Post("/wizard", a.handleCreateWizard)
		api.Get("/locations", a.handleProvinces)
		api.Get("/locations/{province}", a.handleDistricts)
		api.Get("/locations/{province}/{district}", a.handleCities)
		api.Get("/projection", a.handleProjection)
		api.Get("/me", a.handleMe)

		api.Group(func(pr chi.Router) {
			pr.Use(a.sessionMiddleware)
			pr.Get("/wizard", a.handleGetWizard)
			pr.Delete("/wizard", a.handleDeleteWizard)
			pr.Patch("/wizard/fields", a.handleSetFields)
			pr.Post("/wizard/next", a.handleNext)
			pr.Post("/wizard/goto/{step}", a.handleGoTo)
		})
	})

	return r
}
