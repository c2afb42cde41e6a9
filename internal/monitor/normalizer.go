// Package monitor contains the filing normalizer, the recency admission
// filter, and the monitor loop that orchestrates one poll cycle.
package monitor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/edgar/internal/models"
)

// DisplayTimezone is the fixed wall-clock timezone all filing timestamps
// are normalized to. Every downstream comparison uses this zone.
const DisplayTimezone = "America/New_York"

// ErrNoID indicates an entry with no derivable filing id.
var ErrNoID = errors.New("no derivable filing id")

var digitsPattern = regexp.MustCompile(`\d+`)

// timestampLayouts are tried in order. Layouts without a zone marker are
// interpreted as UTC.
var timestampLayouts = []struct {
	layout string
	naive  bool
}{
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", true},
	{"01/02/2006 15:04:05", true},
}

// Normalize converts one raw entry into a canonical filing. The returned
// error describes why the entry must be skipped; it never aborts a batch.
func Normalize(e models.RawEntry, loc *time.Location) (models.Filing, error) {
	id := DeriveID(e.ID)
	if id == "" {
		return models.Filing{}, ErrNoID
	}

	ts, err := ParseTimestamp(e.Updated, loc)
	if err != nil {
		return models.Filing{}, fmt.Errorf("unparseable timestamp %q: %w", e.Updated, err)
	}

	cik := e.CIK
	if cik == "" {
		cik = cikFromLink(e.Link)
	}

	// A source-provided form code wins over the title split: multi-token
	// codes like "SC 13D" would otherwise be truncated to "SC".
	formType := e.FormType
	if formType == "" {
		formType = formTypeFromTitle(e.Title)
	}

	return models.Filing{
		ID:        id,
		FormType:  formType,
		Company:   e.Company,
		CIK:       PadCIK(cik),
		Timestamp: ts,
		Link:      preferredLink(e),
	}, nil
}

// DeriveID extracts the stable filing id from a source identifier: the
// last path segment, then the value side of a trailing key=value pair
// (EDGAR feed ids look like "urn:...:accession-number=0001213900-25-041234").
func DeriveID(sourceID string) string {
	id := sourceID
	if idx := strings.LastIndex(id, "/"); idx >= 0 {
		id = id[idx+1:]
	}
	if idx := strings.LastIndex(id, "="); idx >= 0 {
		id = id[idx+1:]
	}
	return strings.TrimSpace(id)
}

// ParseTimestamp parses a source timestamp string and converts it to the
// display timezone. Strings without a zone marker are treated as UTC.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	for _, l := range timestampLayouts {
		var t time.Time
		var err error
		if l.naive {
			t, err = time.ParseInLocation(l.layout, value, time.UTC)
		} else {
			t, err = time.Parse(l.layout, value)
		}
		if err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, errors.New("no known layout matched")
}

// PadCIK left-pads the numeric portion of a CIK to exactly 10 characters.
// Returns empty rather than fabricating a value when no digits exist.
func PadCIK(cik string) string {
	digits := digitsPattern.FindString(cik)
	if digits == "" {
		return ""
	}
	if len(digits) >= 10 {
		return digits[len(digits)-10:]
	}
	return strings.Repeat("0", 10-len(digits)) + digits
}

// formTypeFromTitle returns the first whitespace-delimited token of the
// entry title, which for EDGAR titles is the form code.
func formTypeFromTitle(title string) string {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// cikFromLink extracts the CIK query parameter from a filing-index link.
func cikFromLink(link string) string {
	idx := strings.Index(link, "CIK=")
	if idx < 0 {
		return ""
	}
	value := link[idx+len("CIK="):]
	if amp := strings.IndexAny(value, "&#"); amp >= 0 {
		value = value[:amp]
	}
	return value
}

// preferredLink picks a content-bearing link (an Archives document path)
// over the plain filing-index link when the source exposes candidates.
func preferredLink(e models.RawEntry) string {
	var archives string
	for _, candidate := range e.AltLinks {
		if !strings.Contains(candidate, "/Archives/") {
			continue
		}
		if !strings.Contains(candidate, "-index") {
			return candidate
		}
		if archives == "" {
			archives = candidate
		}
	}
	if e.Link != "" {
		return e.Link
	}
	return archives
}
