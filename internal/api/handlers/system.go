package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/api/response"
	"github.com/anrtools/anr-companion/internal/metrics"
	"github.com/anrtools/anr-companion/internal/version"
)

// RefreshFunc refetches card data from upstream and republishes the
// snapshot.
type RefreshFunc func(r *http.Request) error

// SystemHandler serves status, version, and metrics endpoints.
type SystemHandler struct {
	snapshots *snapshot.Store
	metrics   *metrics.EngineMetrics
	refresh   RefreshFunc
}

// NewSystemHandler creates a new SystemHandler. refresh may be nil when the
// server has no upstream data source configured.
func NewSystemHandler(snapshots *snapshot.Store, m *metrics.EngineMetrics, refresh RefreshFunc) *SystemHandler {
	return &SystemHandler{snapshots: snapshots, metrics: m, refresh: refresh}
}

// SystemStatus describes the loaded card pool.
type SystemStatus struct {
	Version   string    `json:"version"`
	CardCount int       `json:"card_count"`
	SetCount  int       `json:"set_count"`
	MWL       string    `json:"mwl,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// GetStatus returns the state of the current snapshot.
func (h *SystemHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	snap := h.snapshots.Current()
	status := SystemStatus{
		Version:   version.GetVersion(),
		CardCount: snap.CardCount(),
		SetCount:  len(snap.Sets()),
		LoadedAt:  snap.LoadedAt,
	}
	if mwl := snap.MWL(); mwl != nil {
		status.MWL = mwl.Name
	}
	response.Success(w, status)
}

// GetVersion returns the application version.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"version": version.GetVersion()})
}

// GetMetrics returns a snapshot of the engine metrics.
func (h *SystemHandler) GetMetrics(w http.ResponseWriter, _ *http.Request) {
	if h.metrics == nil {
		response.ServiceUnavailable(w, errors.New("metrics collection is disabled"))
		return
	}
	response.Success(w, h.metrics.GetStats())
}

// Refresh refetches card data from upstream.
func (h *SystemHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresh == nil {
		response.ServiceUnavailable(w, errors.New("no upstream data source configured"))
		return
	}
	if err := h.refresh(r); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, map[string]string{"status": "refreshed"})
}
