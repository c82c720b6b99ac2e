package certhandler

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/metrics"
)

// Handler serves the CA certificate deployments use to verify installers.
type Handler struct {
	name    string
	path    string
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler serves the file at path under "/" + name.
func NewHandler(name, path string, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		name:    name,
		path:    path,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes registers GET /{name} at the service root.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/"+h.name, h.HandleCACertificate)
}

// HandleCACertificate writes the CA certificate, a 404 naming the path when
// it is missing, or a 500 when it exists but cannot be read.
func (h *Handler) HandleCACertificate(w http.ResponseWriter, r *http.Request) {
	result := h.ServeCA()
	switch {
	case result.IsOk():
		h.metrics.CACertificateRequests.WithLabelValues(metrics.OutcomeServed).Inc()
	case result.StatusCode() == http.StatusNotFound:
		h.metrics.CACertificateRequests.WithLabelValues(metrics.OutcomeNotFound).Inc()
	default:
		h.metrics.CACertificateRequests.WithLabelValues(metrics.OutcomeError).Inc()
	}
	result.Write(w, r)
}

// ServeCA opens the CA certificate. The file is looked up on every call, so
// it becomes available as soon as it is placed on disk. A path that exists
// but cannot be read is a server error.
func (h *Handler) ServeCA() api.TransferResult {
	f, err := os.Open(h.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		h.log.Error("Failed to open CA certificate", "err", err, "path", h.path)
		return api.Failure("Failed to read CA certificate", http.StatusInternalServerError)
	}
	if err == nil {
		info, statErr := f.Stat()
		if statErr == nil && info.Mode().IsRegular() {
			return api.Ok(f)
		}
		f.Close()
		if statErr != nil {
			h.log.Error("Failed to stat CA certificate", "err", statErr, "path", h.path)
			return api.Failure("Failed to read CA certificate", http.StatusInternalServerError)
		}
	}

	msg := fmt.Sprintf("%s not found", h.path)
	h.log.Warn(msg)
	return api.Failure(msg, http.StatusNotFound)
}
