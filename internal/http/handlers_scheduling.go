package httpx

import (
	"net/http"

	"github.com/rosterd/rosterd/internal/service"
)

// SchedulingHandlers provides HTTP handlers for optimization runs: trigger,
// inspection, apply, and queue introspection.
type SchedulingHandlers struct {
	Svc *service.SchedulingService
}

// Optimize triggers an optimization run for a schedule and answers 202 as
// soon as the run is queued; solving happens on a worker.
// POST /api/scheduling/optimize?weekly_schedule_id=&config_id=.
func (h *SchedulingHandlers) Optimize(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.URL.Query().Get("weekly_schedule_id")
	if scheduleID == "" {
		WriteError(w, http.StatusBadRequest, "weekly_schedule_id is required")
		return
	}

	var configID *string
	if v := r.URL.Query().Get("config_id"); v != "" {
		configID = &v
	}

	run, err := h.Svc.Trigger(r.Context(), scheduleID, configID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, map[string]string{"run_id": run.ID})
}

// RunMetrics returns one run together with its derived metrics.
// GET /api/scheduling/runs/{run_id}/metrics.
func (h *SchedulingHandlers) RunMetrics(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")

	run, err := h.Svc.GetRunWithMetrics(r.Context(), runID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, run)
}

// ScheduleRuns returns a schedule's runs with metrics, newest first.
// GET /api/scheduling/schedules/{schedule_id}/runs.
func (h *SchedulingHandlers) ScheduleRuns(w http.ResponseWriter, r *http.Request) {
	scheduleID := r.PathValue("schedule_id")

	runs, err := h.Svc.ListRuns(r.Context(), scheduleID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, runs)
}

// Apply replaces the live assignments on the shifts a completed run covers.
// POST /api/scheduling/runs/{run_id}/apply.
func (h *SchedulingHandlers) Apply(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")

	result, err := h.Svc.Apply(r.Context(), runID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// CancelRun cancels a run no worker has claimed yet.
// POST /api/scheduling/runs/{run_id}/cancel.
func (h *SchedulingHandlers) CancelRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("run_id")

	run, err := h.Svc.CancelRun(r.Context(), runID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, run)
}

// QueueStats reports the optimize queue depth by job status.
// GET /api/scheduling/queue/stats.
func (h *SchedulingHandlers) QueueStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.QueueStats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}
