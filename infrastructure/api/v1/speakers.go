package v1

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/voiceidlabs/voiceid"
	"github.com/voiceidlabs/voiceid/infrastructure/api/middleware"
	"github.com/voiceidlabs/voiceid/infrastructure/api/v1/dto"
)

// SpeakersRouter handles enrollment and profile management endpoints.
type SpeakersRouter struct {
	client *voiceid.Client
	logger *slog.Logger
}

// NewSpeakersRouter creates a new SpeakersRouter.
func NewSpeakersRouter(client *voiceid.Client) *SpeakersRouter {
	return &SpeakersRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Enroll handles POST /enroll?name=. The clip arrives as the multipart
// "file" field.
func (r *SpeakersRouter) Enroll(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	name := strings.TrimSpace(req.URL.Query().Get("name"))
	if name == "" {
		middleware.WriteError(w, req, middleware.BadRequest("missing name parameter"), r.logger)
		return
	}

	raw, err := readClip(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if _, err := r.client.Enroll.Enroll(ctx, name, raw); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.EnrollResponse{OK: true, Name: name})
}

// Reset handles POST /reset?name=|all=. With all=true both tiers are
// dropped and recreated empty; with a name only that speaker's records go.
// Neither parameter makes the call a no-op.
func (r *SpeakersRouter) Reset(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	all, _ := strconv.ParseBool(req.URL.Query().Get("all"))
	name := strings.TrimSpace(req.URL.Query().Get("name"))

	switch {
	case all:
		if err := r.client.Profiles.ResetAll(ctx); err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		r.logger.InfoContext(ctx, "all profiles reset")
	case name != "":
		if err := r.client.Profiles.DeleteSpeaker(ctx, name); err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		r.logger.InfoContext(ctx, "speaker reset", slog.String("name", name))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ResetResponse{OK: true})
}

// Profiles handles GET /profiles.
func (r *SpeakersRouter) Profiles(w http.ResponseWriter, req *http.Request) {
	names, err := r.client.Profiles.ListSpeakerNames(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if names == nil {
		names = []string{}
	}

	middleware.WriteJSON(w, http.StatusOK, dto.ProfilesResponse{Profiles: names})
}

// RebuildCentroids handles POST /rebuild_centroids.
func (r *SpeakersRouter) RebuildCentroids(w http.ResponseWriter, req *http.Request) {
	updated, err := r.client.Centroids.RebuildAll(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.RebuildResponse{
		Status:          "ok",
		SpeakersUpdated: updated,
		Message:         fmt.Sprintf("rebuilt centroids for %d speakers", updated),
	})
}
