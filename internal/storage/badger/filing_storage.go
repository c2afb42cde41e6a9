package badger

import (
	"context"
	"fmt"
	"sort"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/edgar/internal/interfaces"
	"github.com/ternarybob/edgar/internal/models"
)

// FilingStorage implements the FilingStorage dedupe gate on Badger.
// Inserts rely on badgerhold's Insert running inside a single Badger
// transaction: the key-exists check and the write are atomic per id.
type FilingStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFilingStorage creates a new FilingStorage instance
func NewFilingStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FilingStorage {
	return &FilingStorage{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether a filing id has already been admitted.
func (s *FilingStorage) Exists(ctx context.Context, id string) (bool, error) {
	var filing models.Filing
	err := s.db.Store().Get(id, &filing)
	if err == badgerhold.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check filing existence: %w", err)
	}
	return true, nil
}

// InsertIfAbsent inserts the filing unless its id is already present.
// A concurrent double-insert resolves to exactly one winner; the loser
// sees (false, nil), never an error.
func (s *FilingStorage) InsertIfAbsent(ctx context.Context, filing *models.Filing) (bool, error) {
	if filing.ID == "" {
		return false, fmt.Errorf("filing id is required")
	}

	err := s.db.Store().Insert(filing.ID, filing)
	if err == badgerhold.ErrKeyExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert filing: %w", err)
	}
	return true, nil
}

// Get retrieves a stored filing by id.
func (s *FilingStorage) Get(ctx context.Context, id string) (*models.Filing, error) {
	var filing models.Filing
	err := s.db.Store().Get(id, &filing)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrFilingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get filing: %w", err)
	}
	return &filing, nil
}

// ListRecent returns up to limit filings, newest first.
func (s *FilingStorage) ListRecent(ctx context.Context, limit int) ([]models.Filing, error) {
	var filings []models.Filing
	if err := s.db.Store().Find(&filings, &badgerhold.Query{}); err != nil {
		return nil, fmt.Errorf("failed to list filings: %w", err)
	}

	sort.Slice(filings, func(i, j int) bool {
		return filings[i].Timestamp.After(filings[j].Timestamp)
	})

	if limit > 0 && len(filings) > limit {
		filings = filings[:limit]
	}
	return filings, nil
}

// Count returns the number of admitted filings.
func (s *FilingStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.Filing{}, &badgerhold.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count filings: %w", err)
	}
	return int(count), nil
}
