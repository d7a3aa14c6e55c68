// Package v1 implements the HTTP endpoints of the identification service.
package v1

import (
	"io"
	"net/http"

	"github.com/voiceidlabs/voiceid/infrastructure/api/middleware"
)

// maxUploadBytes bounds the accepted clip size.
const maxUploadBytes = 32 << 20

// readClip extracts the uploaded audio bytes from the multipart "file"
// field.
func readClip(req *http.Request) ([]byte, error) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, middleware.BadRequest("invalid multipart form")
	}

	file, _, err := req.FormFile("file")
	if err != nil {
		return nil, middleware.BadRequest("missing file upload")
	}
	defer func() { _ = file.Close() }()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, middleware.BadRequest("unreadable file upload")
	}
	return raw, nil
}
