package sources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/edgar/internal/models"
)

var (
	// accessionPattern matches an accession-number token, e.g. "0001213900-25-041234".
	accessionPattern = regexp.MustCompile(`\d{10}-\d{2}-\d{6}`)
	// cikPattern matches a parenthesized 10-digit CIK in the company cell.
	cikPattern = regexp.MustCompile(`\((\d{10})\)`)
)

// ScrapeSource fetches filings by scraping the EDGAR current-events HTML
// listing page. Each table row is one filing; a row that cannot be parsed
// is skipped, never aborting the poll.
type ScrapeSource struct {
	url        string
	userAgent  string
	httpClient *http.Client
	logger     arbor.ILogger
}

// NewScrapeSource creates a scrape-strategy source.
func NewScrapeSource(url, userAgent string, timeout time.Duration, logger arbor.ILogger) *ScrapeSource {
	return &ScrapeSource{
		url:        url,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Name returns the strategy name.
func (s *ScrapeSource) Name() string {
	return "scrape"
}

// Fetch retrieves the listing page and extracts one entry per table row.
func (s *ScrapeSource) Fetch(ctx context.Context) ([]models.RawEntry, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("unexpected status code from listing page: %d", resp.StatusCode)
	}

	entries, skipped, err := s.parseListing(resp.Body, s.url)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		s.logger.Debug().Int("skipped", skipped).Msg("Skipped unparseable listing rows")
	}

	s.logger.Debug().Int("count", len(entries)).Msg("Fetched entries from listing page")
	return entries, skipped, nil
}

// parseListing walks the filing table. Fixed columns: 0 = form type,
// 1 = company (CIK parenthesized), 3 = date/time. The accession-number
// token is pattern-matched against the whole row text.
func (s *ScrapeSource) parseListing(r io.Reader, baseURL string) ([]models.RawEntry, int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse listing HTML: %w", err)
	}

	var entries []models.RawEntry
	skipped := 0

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return // header or layout row
		}

		rowText := row.Text()
		accession := accessionPattern.FindString(rowText)
		if accession == "" {
			skipped++
			return
		}

		formType := strings.TrimSpace(cells.Eq(0).Text())
		companyCell := strings.TrimSpace(cells.Eq(1).Text())
		if formType == "" {
			skipped++
			return
		}

		cik := ""
		company := companyCell
		if m := cikPattern.FindStringSubmatch(companyCell); m != nil {
			cik = m[1]
			company = strings.TrimSpace(strings.SplitN(companyCell, "(", 2)[0])
		}

		entry := models.RawEntry{
			ID: accession,
			// The form cell is authoritative and may contain spaces
			// ("SC 13D"); it must not go through the title split.
			FormType: formType,
			Title:    formType,
			Company:  company,
			CIK:      cik,
			Updated:  normalizeDateTimeCell(strings.TrimSpace(cells.Eq(3).Text())),
		}

		// Prefer the document link in the row; fall back to the page URL.
		if href, ok := row.Find("a[href]").First().Attr("href"); ok {
			entry.Link = resolveHref(baseURL, href)
		} else {
			entry.Link = baseURL
		}
		row.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok {
				entry.AltLinks = append(entry.AltLinks, resolveHref(baseURL, href))
			}
		})

		entries = append(entries, entry)
	})

	return entries, skipped, nil
}

// normalizeDateTimeCell turns a "date time" cell into the normalizer's
// naive format. A cell carrying only a time falls back to the current UTC
// date for the date component.
func normalizeDateTimeCell(cell string) string {
	fields := strings.Fields(cell)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		if strings.Contains(fields[0], ":") {
			// Time only: date component falls back to the current UTC date.
			return time.Now().UTC().Format("2006-01-02") + " " + fields[0]
		}
		return fields[0]
	default:
		return fields[0] + " " + fields[1]
	}
}

// resolveHref resolves a relative href against the page host.
func resolveHref(baseURL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		if idx := strings.Index(baseURL, "//"); idx >= 0 {
			if end := strings.Index(baseURL[idx+2:], "/"); end >= 0 {
				return baseURL[:idx+2+end] + href
			}
		}
		return "https://www.sec.gov" + href
	}
	return href
}
