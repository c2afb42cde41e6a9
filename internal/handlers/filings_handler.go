package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/impact"
	"github.com/ternarybob/edgar/internal/interfaces"
	"github.com/ternarybob/edgar/internal/models"
	"github.com/ternarybob/edgar/internal/tickers"
)

const (
	defaultFilingsLimit = 20
	maxFilingsLimit     = 200
)

// FilingsHandler serves admitted filings, enriched on demand with ticker
// mapping, market snapshot and impact score.
type FilingsHandler struct {
	storage  interfaces.FilingStorage
	tickers  *tickers.Map
	provider interfaces.SnapshotProvider
	scorer   *impact.Scorer
	logger   arbor.ILogger
}

// NewFilingsHandler creates a new FilingsHandler
func NewFilingsHandler(storage interfaces.FilingStorage, tickerMap *tickers.Map, provider interfaces.SnapshotProvider, scorer *impact.Scorer, logger arbor.ILogger) *FilingsHandler {
	return &FilingsHandler{
		storage:  storage,
		tickers:  tickerMap,
		provider: provider,
		scorer:   scorer,
		logger:   logger,
	}
}

// FilingView is the API representation of an admitted filing with its
// derived market context.
type FilingView struct {
	models.Filing
	Ticker   string                 `json:"ticker"`
	Snapshot *models.MarketSnapshot `json:"snapshot,omitempty"`
	Impact   *models.ImpactResult   `json:"impact,omitempty"`
}

// ListHandler handles GET /api/filings?limit=N&enrich=true
func (h *FilingsHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := GetLimitParam(r, defaultFilingsLimit, maxFilingsLimit)
	enrich := r.URL.Query().Get("enrich") == "true"

	filings, err := h.storage.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list filings")
		WriteError(w, http.StatusInternalServerError, "failed to list filings")
		return
	}

	views := make([]FilingView, 0, len(filings))
	for _, filing := range filings {
		view := FilingView{
			Filing: filing,
			Ticker: h.tickers.Lookup(filing.CIK),
		}

		if enrich {
			snapshot, err := h.provider.Snapshot(r.Context(), view.Ticker)
			if err != nil {
				h.logger.Warn().
					Err(err).
					Str("ticker", view.Ticker).
					Msg("Snapshot lookup failed, scoring without market data")
				snapshot = models.MarketSnapshot{Ticker: view.Ticker, Available: false}
			}
			result := h.scorer.Score(filing, snapshot)
			view.Snapshot = &snapshot
			view.Impact = &result
		}

		views = append(views, view)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(views),
		"filings": views,
	})
}

// GetHandler handles GET /api/filings/{id}, always enriched.
func (h *FilingsHandler) GetHandler(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	filing, err := h.storage.Get(r.Context(), id)
	if err != nil {
		if err == interfaces.ErrFilingNotFound {
			WriteError(w, http.StatusNotFound, "filing not found")
			return
		}
		h.logger.Error().Err(err).Str("id", id).Msg("Failed to load filing")
		WriteError(w, http.StatusInternalServerError, "failed to load filing")
		return
	}

	ticker := h.tickers.Lookup(filing.CIK)
	snapshot, err := h.provider.Snapshot(r.Context(), ticker)
	if err != nil {
		h.logger.Warn().Err(err).Str("ticker", ticker).Msg("Snapshot lookup failed")
		snapshot = models.MarketSnapshot{Ticker: ticker, Available: false}
	}
	result := h.scorer.Score(*filing, snapshot)

	WriteJSON(w, http.StatusOK, FilingView{
		Filing:   *filing,
		Ticker:   ticker,
		Snapshot: &snapshot,
		Impact:   &result,
	})
}
