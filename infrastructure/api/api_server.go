package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/voiceidlabs/voiceid"
	apimiddleware "github.com/voiceidlabs/voiceid/infrastructure/api/middleware"
	v1 "github.com/voiceidlabs/voiceid/infrastructure/api/v1"
	"github.com/voiceidlabs/voiceid/infrastructure/api/v1/dto"
)

// APIServer provides the HTTP API backed by a voiceid Client.
type APIServer struct {
	client  *voiceid.Client
	version string
	server  *Server
	router  chi.Router
	logger  *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given voiceid Client.
func NewAPIServer(client *voiceid.Client, version string) *APIServer {
	return &APIServer{
		client:  client,
		version: version,
		logger:  client.Logger(),
	}
}

// mountRoutes wires up all routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	speakers := v1.NewSpeakersRouter(a.client)
	identify := v1.NewIdentifyRouter(a.client)
	configRouter := v1.NewConfigRouter(a.client)

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(apimiddleware.Logging(a.logger))

		r.Post("/enroll", speakers.Enroll)
		r.Post("/identify", identify.Identify)
		r.Post("/reset", speakers.Reset)
		r.Get("/profiles", speakers.Profiles)
		r.Post("/rebuild_centroids", speakers.RebuildCentroids)
		r.Get("/config", configRouter.Get)
		r.Post("/config", configRouter.Update)
	})

	router.Get("/health", a.health)
	router.Get("/healthz", a.health)
	router.Get("/", a.banner)
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

func (a *APIServer) banner(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, dto.BannerResponse{
		Service: "voiceid",
		Version: a.version,
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	a.mountRoutes(server.Router())

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the full route tree as an http.Handler for use with
// custom servers and tests.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.router = chi.NewRouter()
		a.mountRoutes(a.router)
	}
	return a.router
}
