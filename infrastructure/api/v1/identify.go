package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/voiceidlabs/voiceid"
	"github.com/voiceidlabs/voiceid/application/service"
	"github.com/voiceidlabs/voiceid/infrastructure/api/middleware"
	"github.com/voiceidlabs/voiceid/infrastructure/api/v1/dto"
)

// IdentifyRouter handles the identification endpoint.
type IdentifyRouter struct {
	client *voiceid.Client
	logger *slog.Logger
}

// NewIdentifyRouter creates a new IdentifyRouter.
func NewIdentifyRouter(client *voiceid.Client) *IdentifyRouter {
	return &IdentifyRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Identify handles POST /identify?threshold=&topk=. The clip arrives as
// the multipart "file" field. An empty profile store yields the unknown
// verdict with status 200.
func (r *IdentifyRouter) Identify(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	raw, err := readClip(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	opts := service.DefaultIdentifyOptions(r.client.Config().Identify())

	if v := req.URL.Query().Get("threshold"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 || threshold > 1 {
			middleware.WriteError(w, req, middleware.BadRequest("invalid threshold parameter"), r.logger)
			return
		}
		opts.Threshold = threshold
	}
	if v := req.URL.Query().Get("topk"); v != "" {
		topK, err := strconv.Atoi(v)
		if err != nil || topK <= 0 {
			middleware.WriteError(w, req, middleware.BadRequest("invalid topk parameter"), r.logger)
			return
		}
		opts.TopK = topK
	}

	verdict, err := r.client.Identify.IdentifyAudio(ctx, raw, opts)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	candidates := verdict.Candidates()
	topN := make([]dto.CandidateSchema, len(candidates))
	for i, c := range candidates {
		topN[i] = dto.CandidateSchema{Name: c.Name(), Score: c.Score()}
	}

	middleware.WriteJSON(w, http.StatusOK, dto.IdentifyResponse{
		Speaker:    verdict.Speaker(),
		Confidence: verdict.Confidence(),
		TopN:       topN,
	})
}
