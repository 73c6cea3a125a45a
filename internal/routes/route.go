package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"loadestimator/internal/config"
	"loadestimator/internal/handlers"
	"loadestimator/internal/identity"
	"loadestimator/internal/logger"
	mdlwr "loadestimator/internal/middleware"
	"loadestimator/internal/refdata"
	"loadestimator/internal/services"
	"loadestimator/internal/store"
)

// NewRouter wires services and handlers onto the chi router.
func NewRouter(table *refdata.Table, provider identity.Provider, st store.ProjectStore, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	estimateSvc := services.NewEstimateService(table)
	reportSvc := services.NewReportService()
	projectSvc := services.NewProjectService(st, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(provider, logr.Logger)

	authHandler := handlers.NewAuthHandler(provider, logr.Logger)
	estimateHandler := handlers.NewEstimateHandler(estimateSvc, reportSvc, logr.Logger)
	projectHandler := handlers.NewProjectHandler(projectSvc, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.SignUp)
			r.Post("/confirm", authHandler.Confirm)
			r.Post("/signin", authHandler.SignIn)
		})

		r.Route("/reference", func(r chi.Router) {
			r.Get("/building-types", estimateHandler.GetBuildingTypes)
			r.Get("/rows", estimateHandler.GetRows)
		})

		r.Route("/estimates", func(r chi.Router) {
			r.Post("/", estimateHandler.Estimate)
			r.Get("/compare", estimateHandler.Compare)
			r.Post("/report", estimateHandler.Report)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Use(authMW.RequireAuth)
			r.Get("/", projectHandler.List)
			r.Put("/{name}", projectHandler.Save)
			r.Get("/{name}", projectHandler.Load)
			r.Delete("/{name}", projectHandler.Delete)
			r.Post("/{name}/delete-cancel", projectHandler.CancelDelete)
		})
	})

	return r
}
