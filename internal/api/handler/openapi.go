package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/daap14/console/internal/api/middleware"
	"github.com/daap14/console/internal/api/response"
)

type apiDocument struct {
	body []byte
	etag string
}

// OpenAPIHandler serves the embedded OpenAPI description as JSON. The document
// never changes at runtime, so it is converted once and validated by ETag.
type OpenAPIHandler struct {
	load func() (apiDocument, error)
}

// NewOpenAPIHandler creates a handler for the given YAML document. Conversion
// happens on the first request.
func NewOpenAPIHandler(yamlDoc []byte) *OpenAPIHandler {
	return &OpenAPIHandler{load: sync.OnceValues(func() (apiDocument, error) {
		body, err := yaml.YAMLToJSON(yamlDoc)
		if err != nil {
			return apiDocument{}, fmt.Errorf("converting OpenAPI YAML: %w", err)
		}
		sum := sha256.Sum256(body)
		return apiDocument{body: body, etag: `"` + hex.EncodeToString(sum[:8]) + `"`}, nil
	})}
}

// ServeHTTP handles GET /openapi.json.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := h.load()
	if err != nil {
		slog.Error("failed to load API description", "error", err, "requestId", middleware.GetRequestID(r.Context()))
		response.Fail(w, http.StatusInternalServerError, "Failed to load API description")
		return
	}

	w.Header().Set("ETag", doc.etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if r.Header.Get("If-None-Match") == doc.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.body); err != nil {
		slog.Error("failed to write OpenAPI response", "error", err)
	}
}
