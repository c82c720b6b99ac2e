package installerhandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/oneagent-tests/installer-server/api"
	"github.com/oneagent-tests/installer-server/interfaces"
	"github.com/oneagent-tests/installer-server/metrics"
)

const (
	// InstallerAPIPrefix is where the installer routes are mounted.
	InstallerAPIPrefix = "/api/v1/deployment/installer/agent"

	// ArchQueryParam is the required query parameter selecting the architecture.
	ArchQueryParam = "arch"
)

// Handler resolves installer download requests against an InstallerCatalog.
type Handler struct {
	catalog interfaces.InstallerCatalog
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler creates a new HTTP request handler for installer downloads.
//
// Parameters:
//   - catalog: maps (system, arch, version) onto candidate installer files
//   - m: counters for request outcomes
//   - log: Structured logger for operational insights
func NewHandler(catalog interfaces.InstallerCatalog, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes configures the HTTP router with the installer endpoints:
//   - GET {InstallerAPIPrefix}/{system}/default/latest?arch=...
//   - GET {InstallerAPIPrefix}/{system}/default/version/{version}?arch=...
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route(InstallerAPIPrefix, func(r chi.Router) {
		r.Get("/{system}/default/latest", h.HandleLatest)
		r.Get("/{system}/default/version/{version}", h.HandleVersion)
	})
}

// HandleLatest serves the newest installer for the system in the URL.
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	h.handleInstaller(w, r, interfaces.LatestVersion)
}

// HandleVersion serves the installer matching the version in the URL.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	h.handleInstaller(w, r, chi.URLParam(r, "version"))
}

func (h *Handler) handleInstaller(w http.ResponseWriter, r *http.Request, version string) {
	arch := r.URL.Query().Get(ArchQueryParam)
	if arch == "" {
		h.metrics.InstallerRequests.WithLabelValues(metrics.OutcomeBadRequest).Inc()
		http.Error(w, "Missing arch query parameter", http.StatusBadRequest)
		return
	}

	result := h.Resolve(chi.URLParam(r, "system"), arch, version)
	switch {
	case result.IsOk():
		h.metrics.InstallerRequests.WithLabelValues(metrics.OutcomeServed).Inc()
	case result.StatusCode() == http.StatusNotFound:
		h.metrics.InstallerRequests.WithLabelValues(metrics.OutcomeNotFound).Inc()
	default:
		h.metrics.InstallerRequests.WithLabelValues(metrics.OutcomeError).Inc()
	}
	result.Write(w, r)
}

// Resolve picks the installer for system, arch and version. The catalog is
// asked to prefer the latest match and the last candidate it returns is
// opened. An empty candidate list is a 404; a candidate that cannot be
// opened is a 500 since the catalog claimed it exists.
func (h *Handler) Resolve(system, arch, version string) api.TransferResult {
	h.log.Info("Getting installer", "system", system, "arch", arch, "version", version)

	installers, err := h.catalog.Installers(system, arch, version, true)
	if err != nil {
		h.log.Error("Failed to list installers", "err", err, "system", system, "arch", arch, "version", version)
		return api.Failure("Failed to list installers", http.StatusInternalServerError)
	}

	if len(installers) == 0 {
		msg := fmt.Sprintf("Installer for system %s in %s version was not found", system, version)
		h.log.Warn(msg)
		return api.Failure(msg, http.StatusNotFound)
	}

	path := installers[len(installers)-1]
	f, err := openRegularFile(path)
	if err != nil {
		h.log.Error("Failed to open installer", "err", err, "path", path)
		return api.Failure(fmt.Sprintf("Failed to open installer for system %s in %s version", system, version), http.StatusInternalServerError)
	}

	h.log.Info("Serving installer", "path", path)
	return api.Ok(f)
}

func openRegularFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return f, nil
}
