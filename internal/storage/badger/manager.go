package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/common"
	"github.com/ternarybob/edgar/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	filing interfaces.FilingStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		filing: NewFilingStorage(db, logger),
		logger: logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// FilingStorage returns the Filing storage interface
func (m *Manager) FilingStorage() interfaces.FilingStorage {
	return m.filing
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
