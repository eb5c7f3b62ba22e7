package handler

import (
	"fmt"
	"net/http"

	"github.com/tickdown/tickdown/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "tickdown_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "tickdown_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "tickdown_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "tickdown_sessions_created_total %d\n", snap.SessionsCreated)
	writeMetric(w, "tickdown_sessions_revoked_total %d\n", snap.SessionsRevoked)
	writeMetric(w, "tickdown_login_duration_seconds_count %d\n", snap.LoginDurationCount)
	writeMetric(w, "tickdown_login_duration_seconds_sum %.6f\n", float64(snap.LoginDurationTotalNs)/1e9)

	for _, reason := range []string{"missing", "invalid", "expired", "revoked"} {
		writeMetric(w, "tickdown_auth_rejections_total{reason=%q} %d\n", reason, snap.AuthRejections[reason])
	}

	writeMetric(w, "tickdown_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "tickdown_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "tickdown_tasks_deleted_total %d\n", snap.TasksDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
