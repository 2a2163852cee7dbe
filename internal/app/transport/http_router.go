package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/monotours24/tour-search-service/internal/app/config"
	"github.com/monotours24/tour-search-service/internal/app/dto"
	"github.com/monotours24/tour-search-service/internal/app/endpoints"
	httptransport "github.com/monotours24/tour-search-service/internal/pkg/transport/http"
)

// MakeHTTPRouter builds the HTTP router with all the service endpoints.
func MakeHTTPRouter(
	cfg *config.Config,
	endpts endpoints.Endpoints,
) *chi.Mux {
	// Initialize Router
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(router chi.Router) {
		router.Use(
			httptransport.RequestID(),
			httptransport.CORSMiddleware(cfg.HTTP.CORSAllowedOrigins),
			httptransport.Recoverer(slog.Default()),
			render.SetContentType(render.ContentTypeJSON),
		)

		router.Route("/tours", func(router chi.Router) {
			router.Get("/search", httptransport.MakeHandlerFunc(
				endpts.TourEndpoint.SearchTours,
				httptransport.DecodeQuery[dto.SearchRequest],
				httptransport.ResponseWithBody,
			))

			router.Get("/hot", httptransport.MakeHandlerFunc(
				endpts.TourEndpoint.HotTours,
				httptransport.DecodeEmpty[struct{}],
				httptransport.ResponseWithBody,
			))
		})

		router.Route("/admin", func(router chi.Router) {
			router.Use(httptransport.AdminAuth(cfg.Admin.Secret))

			router.Get("/config", httptransport.MakeHandlerFunc(
				endpts.AdminEndpoint.GetConfig,
				httptransport.DecodeEmpty[dto.GetConfigRequest],
				httptransport.ResponseWithBody,
			))

			router.Post("/config", httptransport.MakeHandlerFunc(
				endpts.AdminEndpoint.SaveConfig,
				httptransport.DecodeRequest[dto.SaveConfigRequest],
				httptransport.ResponseWithBody,
			))

			router.Post("/test-connection", httptransport.MakeHandlerFunc(
				endpts.AdminEndpoint.TestConnection,
				httptransport.DecodeRequest[dto.TestConnectionRequest],
				httptransport.ResponseWithBody,
			))

			router.Get("/test-connection", httptransport.MakeHandlerFunc(
				endpts.AdminEndpoint.TestConnection,
				httptransport.DecodeEmpty[dto.TestConnectionRequest],
				httptransport.ResponseWithBody,
			))

			router.Get("/debug", httptransport.MakeHandlerFunc(
				endpts.AdminEndpoint.Debug,
				httptransport.DecodeEmpty[dto.DebugRequest],
				httptransport.ResponseWithBody,
			))
		})
	})

	return router
}
