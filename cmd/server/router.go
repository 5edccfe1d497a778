package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/vokabel/internal/api"
	apiMiddleware "github.com/phrazzld/vokabel/internal/api/middleware"
	"github.com/phrazzld/vokabel/internal/api/shared"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))
	r.Use(apiMiddleware.CORS(app.config.Server.AllowedOrigin))

	api.RegisterRoutes(r, api.Handlers{
		Proxy:    api.NewVocabProxyHandler(app.generator, app.config.Trainer.MaxGenerateCount, app.logger),
		Profiles: api.NewProfileHandler(app.trainer, app.logger),
		Sessions: api.NewSessionHandler(app.trainer, app.logger),
		Jobs:     api.NewJobHandler(app.taskRunner, app.importer, app.profiles, app.logger),
		Sync:     api.NewSyncHandler(app.syncer, app.logger),
	})

	r.Get("/health", app.health)

	return r
}

// health reports local store reachability and, when enabled, cloud
// database reachability.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := api.HealthResponse{Status: "ok"}
	if err := app.slots.Ping(ctx); err != nil {
		app.logger.ErrorContext(ctx, "local store health check failed", "error", err)
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable"})
		return
	}
	if app.cloud != nil {
		resp.Cloud = "ok"
		if err := app.cloud.Ping(ctx); err != nil {
			app.logger.WarnContext(ctx, "cloud health check failed", "error", err)
			resp.Cloud = "unreachable"
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
