package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/ternarybob/edgar/internal/models"
)

func mustLoadEastern(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(DisplayTimezone)
	if err != nil {
		t.Fatalf("failed to load %s: %v", DisplayTimezone, err)
	}
	return loc
}

func TestDeriveID(t *testing.T) {
	tests := []struct {
		name     string
		sourceID string
		want     string
	}{
		{
			name:     "urn with accession number",
			sourceID: "urn:tag:sec.gov,2008:accession-number=0001213900-25-041234",
			want:     "0001213900-25-041234",
		},
		{
			name:     "url path",
			sourceID: "https://www.sec.gov/Archives/edgar/data/320193/0000320193-25-000073",
			want:     "0000320193-25-000073",
		},
		{
			name:     "plain accession",
			sourceID: "0000320193-25-000073",
			want:     "0000320193-25-000073",
		},
		{
			name:     "empty",
			sourceID: "",
			want:     "",
		},
		{
			name:     "trailing slash",
			sourceID: "https://example.com/filings/",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveID(tt.sourceID); got != tt.want {
				t.Errorf("DeriveID(%q) = %q, want %q", tt.sourceID, got, tt.want)
			}
		})
	}
}

func TestPadCIK(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"320193", "0000320193"},
		{"0000320193", "0000320193"},
		{"CIK=320193", "0000320193"},
		{"1", "0000000001"},
		{"", ""},
		{"no digits here", ""},
	}

	for _, tt := range tests {
		if got := PadCIK(tt.input); got != tt.want {
			t.Errorf("PadCIK(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	loc := mustLoadEastern(t)

	t.Run("rfc3339 with offset", func(t *testing.T) {
		got, err := ParseTimestamp("2025-11-07T14:30:00-05:00", loc)
		if err != nil {
			t.Fatalf("ParseTimestamp returned error: %v", err)
		}
		want := time.Date(2025, 11, 7, 14, 30, 0, 0, loc)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
		if got.Location() != loc {
			t.Errorf("location = %v, want %v", got.Location(), loc)
		}
	})

	t.Run("naive timestamp treated as utc", func(t *testing.T) {
		got, err := ParseTimestamp("2025-11-07 19:30:00", loc)
		if err != nil {
			t.Fatalf("ParseTimestamp returned error: %v", err)
		}
		// 19:30 UTC is 14:30 in New York during EST.
		want := time.Date(2025, 11, 7, 14, 30, 0, 0, loc)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("date only", func(t *testing.T) {
		got, err := ParseTimestamp("2025-11-07", loc)
		if err != nil {
			t.Fatalf("ParseTimestamp returned error: %v", err)
		}
		want := time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseTimestamp("yesterday-ish", loc); err == nil {
			t.Error("expected error for unparseable timestamp")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseTimestamp("", loc); err == nil {
			t.Error("expected error for empty timestamp")
		}
	})
}

func TestNormalize(t *testing.T) {
	loc := mustLoadEastern(t)

	entry := models.RawEntry{
		ID:      "urn:tag:sec.gov,2008:accession-number=0001213900-25-041234",
		Title:   "8-K - ACME HOLDINGS INC (0000320193) (Filer)",
		Company: "ACME HOLDINGS INC",
		Link:    "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=320193&type=8-K",
		Updated: "2025-11-07T14:30:00-05:00",
	}

	filing, err := Normalize(entry, loc)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if filing.ID != "0001213900-25-041234" {
		t.Errorf("ID = %q", filing.ID)
	}
	if filing.FormType != "8-K" {
		t.Errorf("FormType = %q, want 8-K", filing.FormType)
	}
	if filing.CIK != "0000320193" {
		t.Errorf("CIK = %q, want 0000320193", filing.CIK)
	}
	if filing.Company != "ACME HOLDINGS INC" {
		t.Errorf("Company = %q", filing.Company)
	}
	want := time.Date(2025, 11, 7, 14, 30, 0, 0, loc)
	if !filing.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", filing.Timestamp, want)
	}
}

func TestNormalizeSourceFormTypeWins(t *testing.T) {
	loc := mustLoadEastern(t)

	// Scrape entries carry the whole form cell as FormType; multi-token
	// codes like "SC 13D" must survive intact, not become "SC".
	entry := models.RawEntry{
		ID:       "0001213900-25-041234",
		FormType: "SC 13D",
		Title:    "SC 13D",
		Company:  "WIDGET PARTNERS LP",
		CIK:      "1234567",
		Updated:  "2025-11-07 19:30:00",
	}

	filing, err := Normalize(entry, loc)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if filing.FormType != "SC 13D" {
		t.Errorf("FormType = %q, want %q", filing.FormType, "SC 13D")
	}
}

func TestNormalizeNoID(t *testing.T) {
	loc := mustLoadEastern(t)

	entry := models.RawEntry{
		Title:   "10-Q - ACME HOLDINGS INC",
		Updated: "2025-11-07T14:30:00-05:00",
	}

	if _, err := Normalize(entry, loc); !errors.Is(err, ErrNoID) {
		t.Errorf("err = %v, want ErrNoID", err)
	}
}

func TestNormalizeBadTimestamp(t *testing.T) {
	loc := mustLoadEastern(t)

	entry := models.RawEntry{
		ID:      "0001213900-25-041234",
		Title:   "10-Q - ACME HOLDINGS INC",
		Updated: "not a time",
	}

	if _, err := Normalize(entry, loc); err == nil {
		t.Error("expected error for bad timestamp")
	}
}

func TestPreferredLink(t *testing.T) {
	tests := []struct {
		name  string
		entry models.RawEntry
		want  string
	}{
		{
			name: "archives document preferred over index link",
			entry: models.RawEntry{
				Link: "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=320193",
				AltLinks: []string{
					"https://www.sec.gov/Archives/edgar/data/320193/000032019325000073-index.htm",
					"https://www.sec.gov/Archives/edgar/data/320193/form8k.htm",
				},
			},
			want: "https://www.sec.gov/Archives/edgar/data/320193/form8k.htm",
		},
		{
			name: "falls back to primary link",
			entry: models.RawEntry{
				Link: "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=320193",
			},
			want: "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=320193",
		},
		{
			name: "index-only archives link used when nothing else exists",
			entry: models.RawEntry{
				AltLinks: []string{
					"https://www.sec.gov/Archives/edgar/data/320193/000032019325000073-index.htm",
				},
			},
			want: "https://www.sec.gov/Archives/edgar/data/320193/000032019325000073-index.htm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preferredLink(tt.entry); got != tt.want {
				t.Errorf("preferredLink = %q, want %q", got, tt.want)
			}
		})
	}
}
