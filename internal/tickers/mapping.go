// Package tickers provides the CIK to ticker symbol mapping, loaded from
// the SEC company_tickers.json layout.
package tickers

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/models"
)

// mappingEntry is one record of the company_tickers.json file:
// {"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}, ...}
type mappingEntry struct {
	CIK    json.Number `json:"cik_str"`
	Ticker string      `json:"ticker"`
	Title  string      `json:"title"`
}

// Map is a read-only CIK -> ticker lookup. Safe for concurrent use.
type Map struct {
	mu     sync.RWMutex
	byCIK  map[string]string
	logger arbor.ILogger
}

// NewMap creates an empty mapping. Every lookup yields the NoTicker
// sentinel until Load succeeds.
func NewMap(logger arbor.ILogger) *Map {
	return &Map{
		byCIK:  make(map[string]string),
		logger: logger,
	}
}

// Load reads the mapping file. A missing or malformed file leaves the
// previous mapping in place and returns the error; the caller decides
// whether that is fatal (at startup it is not).
func (m *Map) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read ticker mapping %s: %w", path, err)
	}

	var raw map[string]mappingEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse ticker mapping %s: %w", path, err)
	}

	byCIK := make(map[string]string, len(raw))
	for _, entry := range raw {
		if entry.Ticker == "" {
			continue
		}
		byCIK[padCIK(entry.CIK.String())] = strings.ToUpper(entry.Ticker)
	}

	m.mu.Lock()
	m.byCIK = byCIK
	m.mu.Unlock()

	m.logger.Info().Int("count", len(byCIK)).Str("path", path).Msg("Loaded ticker mapping")
	return nil
}

// Lookup returns the ticker for a CIK, or the NoTicker sentinel. The
// input is zero-padded before lookup so callers may pass unpadded CIKs.
func (m *Map) Lookup(cik string) string {
	if cik == "" {
		return models.NoTicker
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if ticker, ok := m.byCIK[padCIK(cik)]; ok {
		return ticker
	}
	return models.NoTicker
}

// Size returns the number of mapped CIKs.
func (m *Map) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byCIK)
}

func padCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
