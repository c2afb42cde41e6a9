package interfaces

import (
	"context"

	"github.com/ternarybob/edgar/internal/models"
)

// Source fetches raw entries from a filing source. Implementations are
// interchangeable strategies (structured feed vs HTML scrape) producing
// the same RawEntry contract.
//
// A single malformed entry is skipped, never aborting the whole poll;
// the count of such drops is reported so cycle stats stay truthful. A
// fetch that cannot reach or parse the source returns a non-nil error so
// the caller can distinguish an outage from a legitimately empty result.
type Source interface {
	// Name returns the strategy name, e.g. "feed" or "scrape".
	Name() string
	// Fetch retrieves the current raw entries from the source. The int
	// is the number of rows the source itself dropped as unparseable.
	Fetch(ctx context.Context) ([]models.RawEntry, int, error)
}
