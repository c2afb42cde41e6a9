package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/common"
	"github.com/ternarybob/edgar/internal/interfaces"
	"github.com/ternarybob/edgar/internal/monitor"
	"github.com/ternarybob/edgar/internal/tickers"
)

// StatusHandler handles HTTP requests for application status
type StatusHandler struct {
	monitor *monitor.Service
	storage interfaces.FilingStorage
	tickers *tickers.Map
	config  *common.Config
	logger  arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(monitorService *monitor.Service, storage interfaces.FilingStorage, tickerMap *tickers.Map, config *common.Config, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		monitor: monitorService,
		storage: storage,
		tickers: tickerMap,
		config:  config,
		logger:  logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	count, err := h.storage.Count(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to count filings")
		WriteError(w, http.StatusInternalServerError, "failed to read storage")
		return
	}

	status := map[string]interface{}{
		"version":        common.GetVersion(),
		"environment":    h.config.Environment,
		"source":         h.config.Monitor.Source,
		"window":         h.config.Monitor.Window,
		"schedule":       h.config.Monitor.Schedule,
		"filings_stored": count,
		"tickers_mapped": h.tickers.Size(),
	}

	if last := h.monitor.LastResult(); last != nil {
		status["last_cycle"] = last
	}

	WriteJSON(w, http.StatusOK, status)
}
