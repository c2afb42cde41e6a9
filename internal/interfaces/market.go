package interfaces

import (
	"context"

	"github.com/ternarybob/edgar/internal/models"
)

// SnapshotProvider supplies a market snapshot for a ticker. An unmapped
// ticker or an upstream failure yields a snapshot with Available=false
// and a nil error: unavailability is data, not a failure, to scoring.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, ticker string) (models.MarketSnapshot, error)
}
