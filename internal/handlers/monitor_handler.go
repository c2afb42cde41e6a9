package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/monitor"
	"github.com/ternarybob/edgar/internal/scheduler"
)

// MonitorHandler exposes poll-cycle controls and results.
type MonitorHandler struct {
	monitor   *monitor.Service
	scheduler *scheduler.Scheduler
	logger    arbor.ILogger
}

// NewMonitorHandler creates a new MonitorHandler
func NewMonitorHandler(monitorService *monitor.Service, sched *scheduler.Scheduler, logger arbor.ILogger) *MonitorHandler {
	return &MonitorHandler{
		monitor:   monitorService,
		scheduler: sched,
		logger:    logger,
	}
}

// TriggerHandler handles POST /api/monitor/trigger - runs a cycle now.
func (h *MonitorHandler) TriggerHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	h.scheduler.RunNow()
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "started",
		"message": "Poll cycle triggered",
	})
}

// LastCycleHandler handles GET /api/monitor/last - the most recent cycle result.
func (h *MonitorHandler) LastCycleHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	last := h.monitor.LastResult()
	if last == nil {
		WriteError(w, http.StatusNotFound, "no cycle has run yet")
		return
	}

	WriteJSON(w, http.StatusOK, last)
}
