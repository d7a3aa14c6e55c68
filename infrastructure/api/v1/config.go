package v1

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/voiceidlabs/voiceid"
	"github.com/voiceidlabs/voiceid/infrastructure/api/middleware"
	"github.com/voiceidlabs/voiceid/infrastructure/api/v1/dto"
)

// ConfigRouter exposes the runtime-adjustable identification defaults.
type ConfigRouter struct {
	client *voiceid.Client
	logger *slog.Logger
}

// NewConfigRouter creates a new ConfigRouter.
func NewConfigRouter(client *voiceid.Client) *ConfigRouter {
	return &ConfigRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Get handles GET /config.
func (r *ConfigRouter) Get(w http.ResponseWriter, req *http.Request) {
	identify := r.client.Config().Identify()

	middleware.WriteJSON(w, http.StatusOK, dto.ConfigResponse{
		Threshold:   r.client.Settings.Threshold(),
		TopK:        identify.TopK(),
		Backend:     r.client.Encoder().Name(),
		Calibration: identify.Calibration(),
	})
}

// Update handles POST /config?threshold=. Out-of-range values are clamped
// to [0, 1]; the applied value is echoed back. The change is process-local
// and not persisted across restarts.
func (r *ConfigRouter) Update(w http.ResponseWriter, req *http.Request) {
	v := req.URL.Query().Get("threshold")
	if v == "" {
		middleware.WriteError(w, req, middleware.BadRequest("missing threshold parameter"), r.logger)
		return
	}

	threshold, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(threshold) {
		middleware.WriteError(w, req, middleware.BadRequest("invalid threshold parameter"), r.logger)
		return
	}

	applied := r.client.Settings.SetThreshold(threshold)
	r.logger.InfoContext(req.Context(), "default threshold updated", slog.Float64("threshold", applied))

	middleware.WriteJSON(w, http.StatusOK, dto.ConfigUpdateResponse{OK: true, Threshold: applied})
}
