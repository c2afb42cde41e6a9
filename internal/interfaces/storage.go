package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/edgar/internal/models"
)

// ErrFilingNotFound is returned when a filing id has no stored record.
var ErrFilingNotFound = errors.New("filing not found")

// FilingStorage is the persistent dedupe gate: a durable set of admitted
// filings keyed by filing id. Filings are only ever inserted; there is no
// update or delete in the core contract.
type FilingStorage interface {
	// Exists reports whether a filing id has already been admitted.
	Exists(ctx context.Context, id string) (bool, error)

	// InsertIfAbsent atomically inserts the filing unless its id is
	// already present. Returns true iff the insert happened. Two
	// concurrent callers with the same id observe exactly one true.
	InsertIfAbsent(ctx context.Context, filing *models.Filing) (bool, error)

	// Get retrieves a stored filing by id, or ErrFilingNotFound.
	Get(ctx context.Context, id string) (*models.Filing, error)

	// ListRecent returns up to limit filings in reverse-chronological
	// order, for downstream consumers.
	ListRecent(ctx context.Context, limit int) ([]models.Filing, error)

	// Count returns the number of admitted filings.
	Count(ctx context.Context) (int, error)
}

// StorageManager aggregates the storage interfaces and owns the
// underlying database connection.
type StorageManager interface {
	FilingStorage() FilingStorage
	Close() error
}
