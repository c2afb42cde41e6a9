package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/interfaces"
	"github.com/ternarybob/edgar/internal/models"
)

// Skip reasons reported in CycleResult.SkipReasons.
const (
	SkipNoID         = "no_id"
	SkipBadTimestamp = "bad_timestamp"
	SkipStorage      = "storage_error"
	// SkipSourceRow counts rows the source itself dropped as
	// unparseable before they could become entries.
	SkipSourceRow = "unparseable_row"
)

// CycleResult reports the outcome of one monitor invocation.
type CycleResult struct {
	CycleID   string    `json:"cycle_id"`
	StartedAt time.Time `json:"started_at"`

	// Fetched is the number of raw entries returned by the source.
	Fetched int `json:"fetched"`
	// Skipped counts entries dropped anywhere short of admission:
	// unparseable source rows, normalizer failures, storage errors.
	Skipped     int            `json:"skipped"`
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
	// Rejected counts filings older than the recency window.
	Rejected int `json:"rejected"`
	// Admitted counts filings newly inserted into the dedupe store.
	Admitted int `json:"admitted"`
	// Duplicates counts filings already present in the store.
	Duplicates int `json:"duplicates"`

	// FetchErr is true when the source could not be reached or parsed.
	// A cycle with FetchErr and zero entries is observably different
	// from a cycle that legitimately had nothing new.
	FetchErr     bool   `json:"fetch_error"`
	FetchErrText string `json:"fetch_error_text,omitempty"`

	// NewFilings are the newly admitted filings, in source order.
	NewFilings []models.Filing `json:"new_filings,omitempty"`
}

// Service runs one poll cycle: fetch, normalize, window-filter, dedupe.
// Scoring is deliberately not part of the admission path; consumers
// re-derive it on demand so the store write path stays pure.
type Service struct {
	source interfaces.Source
	store  interfaces.FilingStorage
	window time.Duration
	loc    *time.Location
	logger arbor.ILogger

	// now is stubbed in tests.
	now func() time.Time

	mu         sync.Mutex
	lastResult *CycleResult
}

// NewService creates a monitor service. The display timezone is loaded
// once here; an unresolvable zone database is a construction error.
func NewService(source interfaces.Source, store interfaces.FilingStorage, window time.Duration, logger arbor.ILogger) (*Service, error) {
	loc, err := time.LoadLocation(DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load display timezone: %w", err)
	}

	return &Service{
		source: source,
		store:  store,
		window: window,
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Run executes one cycle. It never returns an error: a source outage is
// reported through CycleResult.FetchErr so the scheduler keeps ticking.
func (s *Service) Run(ctx context.Context) CycleResult {
	result := CycleResult{
		CycleID:     uuid.New().String(),
		StartedAt:   s.now().In(s.loc),
		SkipReasons: make(map[string]int),
	}

	entries, dropped, err := s.source.Fetch(ctx)
	if err != nil {
		result.FetchErr = true
		result.FetchErrText = err.Error()
		s.logger.Warn().
			Err(err).
			Str("source", s.source.Name()).
			Str("cycle_id", result.CycleID).
			Msg("Source fetch failed, skipping cycle")
		s.storeResult(result)
		return result
	}

	result.Fetched = len(entries)
	if dropped > 0 {
		result.Skipped += dropped
		result.SkipReasons[SkipSourceRow] += dropped
	}
	now := s.now().In(s.loc)

	for _, entry := range entries {
		filing, err := Normalize(entry, s.loc)
		if err != nil {
			result.Skipped++
			reason := SkipBadTimestamp
			if err == ErrNoID {
				reason = SkipNoID
			}
			result.SkipReasons[reason]++
			s.logger.Debug().
				Err(err).
				Str("entry_id", entry.ID).
				Msg("Skipping unnormalizable entry")
			continue
		}

		if !WithinWindow(filing.Timestamp, now, s.window) {
			result.Rejected++
			continue
		}

		inserted, err := s.store.InsertIfAbsent(ctx, &filing)
		if err != nil {
			result.Skipped++
			result.SkipReasons[SkipStorage]++
			s.logger.Warn().
				Err(err).
				Str("filing_id", filing.ID).
				Msg("Failed to insert filing")
			continue
		}
		if !inserted {
			result.Duplicates++
			continue
		}

		result.Admitted++
		result.NewFilings = append(result.NewFilings, filing)
		s.logger.Info().
			Str("filing_id", filing.ID).
			Str("form_type", filing.FormType).
			Str("company", filing.Company).
			Str("cik", filing.CIK).
			Msg("Admitted new filing")
	}

	s.logger.Info().
		Str("cycle_id", result.CycleID).
		Str("source", s.source.Name()).
		Int("fetched", result.Fetched).
		Int("skipped", result.Skipped).
		Int("rejected", result.Rejected).
		Int("duplicates", result.Duplicates).
		Int("admitted", result.Admitted).
		Msg("Monitor cycle complete")

	s.storeResult(result)
	return result
}

// LastResult returns the most recent cycle outcome, or nil before the
// first cycle. Used by the status endpoint.
func (s *Service) LastResult() *CycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastResult == nil {
		return nil
	}
	last := *s.lastResult
	return &last
}

func (s *Service) storeResult(result CycleResult) {
	s.mu.Lock()
	s.lastResult = &result
	s.mu.Unlock()
}

// SetNowFunc overrides the clock. Tests only.
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}
