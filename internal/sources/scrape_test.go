package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

const listingFixture = `<html><body>
<table>
  <tr><th>Form</th><th>Filer</th><th>Accession</th><th>Accepted</th></tr>
  <tr>
    <td>8-K</td>
    <td>ACME HOLDINGS INC (0000320193)</td>
    <td><a href="/Archives/edgar/data/320193/000032019325000073-index.htm">0000320193-25-000073</a></td>
    <td>2025-11-07 14:30:00</td>
  </tr>
  <tr>
    <td>10-Q</td>
    <td>BROKEN ROW CORP (0000999999)</td>
    <td>no accession token here</td>
    <td>2025-11-07 14:29:00</td>
  </tr>
  <tr>
    <td>SC 13D</td>
    <td>WIDGET PARTNERS LP (0001234567)</td>
    <td><a href="https://www.sec.gov/Archives/edgar/data/1234567/000121390025041234-index.htm">0001213900-25-041234</a></td>
    <td>2025-11-07 14:28:00</td>
  </tr>
</table>
</body></html>`

func TestParseListing(t *testing.T) {
	source := NewScrapeSource("https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent", "edgar-test/1.0", 5*time.Second, arbor.NewLogger())

	entries, skipped, err := source.parseListing(strings.NewReader(listingFixture), "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent")
	if err != nil {
		t.Fatalf("parseListing returned error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (row without accession)", skipped)
	}

	first := entries[0]
	if first.ID != "0000320193-25-000073" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Title != "8-K" {
		t.Errorf("Title = %q, want 8-K", first.Title)
	}
	if first.Company != "ACME HOLDINGS INC" {
		t.Errorf("Company = %q, want ACME HOLDINGS INC", first.Company)
	}
	if first.CIK != "0000320193" {
		t.Errorf("CIK = %q, want 0000320193", first.CIK)
	}
	if first.Updated != "2025-11-07 14:30:00" {
		t.Errorf("Updated = %q", first.Updated)
	}
	if first.Link != "https://www.sec.gov/Archives/edgar/data/320193/000032019325000073-index.htm" {
		t.Errorf("Link = %q, want resolved archives href", first.Link)
	}

	// A broken row must not block rows after it.
	second := entries[1]
	if second.ID != "0001213900-25-041234" {
		t.Errorf("second ID = %q", second.ID)
	}
	// The form cell is carried whole; a multi-token code must not be
	// left to the title split downstream.
	if second.FormType != "SC 13D" {
		t.Errorf("second FormType = %q, want SC 13D", second.FormType)
	}
	if second.Title != "SC 13D" {
		t.Errorf("second Title = %q, want SC 13D", second.Title)
	}
}

func TestNormalizeDateTimeCell(t *testing.T) {
	tests := []struct {
		name string
		cell string
		want string
	}{
		{"date and time", "2025-11-07 14:30:00", "2025-11-07 14:30:00"},
		{"date only", "2025-11-07", "2025-11-07"},
		{"empty", "", ""},
		{"extra whitespace", "  2025-11-07   14:30:00  ", "2025-11-07 14:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDateTimeCell(tt.cell); got != tt.want {
				t.Errorf("normalizeDateTimeCell(%q) = %q, want %q", tt.cell, got, tt.want)
			}
		})
	}

	t.Run("time only gets current utc date", func(t *testing.T) {
		got := normalizeDateTimeCell("14:30:00")
		wantPrefix := time.Now().UTC().Format("2006-01-02")
		if !strings.HasPrefix(got, wantPrefix) || !strings.HasSuffix(got, "14:30:00") {
			t.Errorf("normalizeDateTimeCell(time only) = %q", got)
		}
	})
}

func TestResolveHref(t *testing.T) {
	base := "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent"

	tests := []struct {
		href string
		want string
	}{
		{"https://example.com/doc.htm", "https://example.com/doc.htm"},
		{"/Archives/edgar/data/320193/doc.htm", "https://www.sec.gov/Archives/edgar/data/320193/doc.htm"},
		{"relative.htm", "relative.htm"},
	}

	for _, tt := range tests {
		if got := resolveHref(base, tt.href); got != tt.want {
			t.Errorf("resolveHref(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestScrapeSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingFixture))
	}))
	defer server.Close()

	source := NewScrapeSource(server.URL, "edgar-test/1.0", 5*time.Second, arbor.NewLogger())

	entries, skipped, err := source.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d entries, want 2", len(entries))
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
}
