package market

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/models"
)

// Provider adapts the quote client to the SnapshotProvider contract.
// Upstream failures are demoted to an unavailable snapshot: scoring must
// always be able to proceed with neutral market terms.
type Provider struct {
	client *Client
	logger arbor.ILogger
}

// NewProvider creates a snapshot provider backed by the quote client.
func NewProvider(client *Client, logger arbor.ILogger) *Provider {
	return &Provider{
		client: client,
		logger: logger,
	}
}

// Snapshot builds a market snapshot for a ticker. The NoTicker sentinel
// and quote failures both yield Available=false with a nil error.
func (p *Provider) Snapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error) {
	snapshot := models.MarketSnapshot{Ticker: ticker}

	if ticker == "" || ticker == models.NoTicker {
		return snapshot, nil
	}

	quote, err := p.client.GetQuote(ctx, ticker)
	if err != nil {
		p.logger.Warn().Err(err).Str("ticker", ticker).Msg("Quote fetch failed, snapshot unavailable")
		return snapshot, nil
	}

	snapshot.Available = true
	snapshot.CurrentPrice = quote.CurrentPrice
	snapshot.HasPrice = quote.HasPrice
	snapshot.Recommendation = quote.Recommendation
	snapshot.TargetPrice = quote.TargetPrice
	snapshot.HasTarget = quote.HasTarget

	// Headlines are best-effort: a failed news fetch degrades the
	// snapshot, it does not invalidate it.
	headlines, err := p.client.GetHeadlines(ctx, ticker)
	if err != nil {
		p.logger.Debug().Err(err).Str("ticker", ticker).Msg("Headline fetch failed")
	} else {
		snapshot.Headlines = headlines
	}

	return snapshot, nil
}
