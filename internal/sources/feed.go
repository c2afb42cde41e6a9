// Package sources implements the filing source strategies. Both the
// structured feed and the HTML scrape produce the same RawEntry contract;
// the monitor loop does not care which one it is talking to.
package sources

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/models"
)

// FeedSource fetches filings from the EDGAR Atom feed endpoint.
type FeedSource struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewFeedSource creates a feed-strategy source.
func NewFeedSource(url, userAgent string, timeout time.Duration, logger arbor.ILogger) *FeedSource {
	return &FeedSource{
		url:        url,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name returns the strategy name.
func (s *FeedSource) Name() string {
	return "feed"
}

// Fetch retrieves and decodes the Atom feed. A transport or document-level
// parse failure is returned to the caller; a malformed individual entry is
// dropped and counted.
func (s *FeedSource) Fetch(ctx context.Context) ([]models.RawEntry, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code from feed: %d", resp.StatusCode)
	}

	entries, skipped, err := ParseFeed(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		s.logger.Debug().Int("skipped", skipped).Msg("Skipped malformed feed entries")
	}

	s.logger.Debug().Int("count", len(entries)).Msg("Fetched entries from feed")
	return entries, skipped, nil
}

// ParseFeed decodes an Atom document into raw entries. Entries without an
// id are dropped and counted; the document itself failing to decode is an
// error for the whole fetch.
func ParseFeed(r io.Reader) ([]models.RawEntry, int, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return nil, 0, fmt.Errorf("failed to parse feed document: %w", err)
	}

	var entries []models.RawEntry
	skipped := 0
	for _, e := range feed.Entries {
		if e.ID == "" {
			skipped++
			continue
		}

		entry := models.RawEntry{
			ID:      e.ID,
			Title:   e.Title,
			Company: e.Author.Name,
			Updated: e.Updated,
		}

		for _, l := range e.Links {
			if l.Href == "" {
				continue
			}
			if entry.Link == "" || l.Rel == "alternate" {
				entry.Link = l.Href
			}
			entry.AltLinks = append(entry.AltLinks, l.Href)
		}

		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

// Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID      string     `xml:"id"`
	Title   string     `xml:"title"`
	Updated string     `xml:"updated"`
	Author  atomAuthor `xml:"author"`
	Links   []atomLink `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}
