// Package dto defines the JSON request and response shapes of the v1 API.
package dto

// EnrollResponse is returned by POST /enroll.
type EnrollResponse struct {
	OK   bool   `json:"ok"`
	Name string `json:"name"`
}

// CandidateSchema is one entry of the ranked candidate list.
type CandidateSchema struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// IdentifyResponse is returned by POST /identify.
type IdentifyResponse struct {
	Speaker    string            `json:"speaker"`
	Confidence float64           `json:"confidence"`
	TopN       []CandidateSchema `json:"topN"`
}

// ResetResponse is returned by POST /reset.
type ResetResponse struct {
	OK bool `json:"ok"`
}

// ProfilesResponse is returned by GET /profiles.
type ProfilesResponse struct {
	Profiles []string `json:"profiles"`
}

// RebuildResponse is returned by POST /rebuild_centroids.
type RebuildResponse struct {
	Status          string `json:"status"`
	SpeakersUpdated int    `json:"speakers_updated"`
	Message         string `json:"message"`
}

// ConfigResponse is returned by GET /config.
type ConfigResponse struct {
	Threshold   float64 `json:"threshold"`
	TopK        int     `json:"topk"`
	Backend     string  `json:"backend"`
	Calibration bool    `json:"calibration"`
}

// ConfigUpdateResponse is returned by POST /config.
type ConfigUpdateResponse struct {
	OK        bool    `json:"ok"`
	Threshold float64 `json:"threshold"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status"`
}

// BannerResponse is returned by GET /.
type BannerResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}
