package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/lattice-ci/lattice-go/internal/goldens"
)

type goldenResponse struct {
	Path         string    `json:"path"`
	Size         int64     `json:"size"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"lastModified"`
	URL          string    `json:"url"`
}

// handleGetGolden resolves one job's golden-value baseline to a presigned
// URL. The diffing tool fetches and interprets the file; the service only
// locates it.
func (api *matrixAPI) handleGetGolden(w http.ResponseWriter, r *http.Request) {
	model := strings.TrimSpace(r.PathValue("model"))
	testCase := strings.TrimSpace(r.PathValue("test_case"))
	environment := strings.TrimSpace(r.URL.Query().Get("environment"))
	platform := strings.TrimSpace(r.URL.Query().Get("platforms"))

	path := goldens.PathFor(model, testCase, environment, platform)
	if path == "" {
		api.writeError(w, r, http.StatusBadRequest, "golden_coordinates_required")
		return
	}

	info, err := api.goldens.Stat(r.Context(), path)
	if err != nil {
		if goldens.IsNotExist(err) {
			api.writeError(w, r, http.StatusNotFound, "golden_not_found")
			return
		}
		api.logger.Error("golden stat failed", "request_id", r.Header.Get("X-Request-Id"), "path", path, "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	url, err := api.goldens.PresignGet(r.Context(), path, api.goldenURLTTL)
	if err != nil {
		api.logger.Error("golden presign failed", "request_id", r.Header.Get("X-Request-Id"), "path", path, "error", err)
		api.writeError(w, r, http.StatusInternalServerError, "internal_error")
		return
	}

	api.writeJSON(w, http.StatusOK, goldenResponse{
		Path:         path,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
		URL:          url,
	})
}
