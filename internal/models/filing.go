// Package models contains the core data types shared across the application.
package models

import "time"

// RawEntry is an unprocessed entry from a filing source. It carries the
// source's own fields verbatim; the normalizer decides what survives.
// RawEntry values live for one poll cycle and are never persisted.
type RawEntry struct {
	// ID is the source's own identifier for the entry (feed id URI or
	// accession number token depending on the source strategy).
	ID string `json:"id"`
	// Title is the entry title. For EDGAR entries the first whitespace
	// token is the form type, e.g. "8-K - Current report".
	Title string `json:"title"`
	// FormType is the source-authoritative form code when the source
	// exposes it as a field of its own (the scrape strategy's form
	// cell, which may contain spaces, e.g. "SC 13D"). When empty the
	// normalizer derives the form type from the title instead.
	FormType string `json:"form_type,omitempty"`
	// Company is the filer display name. May be empty.
	Company string `json:"company"`
	// CIK is the filer identifier when the source exposes it directly
	// (scrape strategy). Empty otherwise; the normalizer falls back to
	// extracting it from the link.
	CIK string `json:"cik,omitempty"`
	// Link is the primary reference URL for the entry.
	Link string `json:"link"`
	// AltLinks are alternate link candidates, when the source exposes
	// more than one (e.g. filing index vs full-text document).
	AltLinks []string `json:"alt_links,omitempty"`
	// Updated is the source's update timestamp string, unparsed.
	Updated string `json:"updated"`
}

// Filing is the canonical unit of work: one regulatory disclosure,
// admitted at most once across all runs. ID is immutable once assigned;
// filings are only ever inserted, never updated.
type Filing struct {
	// ID is the stable filing identifier (accession-number derived).
	ID string `json:"id"`
	// FormType is the short form code, e.g. "8-K", "10-Q", "SC 13D".
	// Unknown codes are tolerated.
	FormType string `json:"form_type"`
	// Company is the filer display name. May be empty.
	Company string `json:"company"`
	// CIK is the zero-padded 10-character filer identifier. May be empty.
	CIK string `json:"cik,omitempty"`
	// Timestamp is the filing instant normalized to US/Eastern. All
	// downstream comparisons use this field only.
	Timestamp time.Time `json:"timestamp"`
	// Link is the canonical reference URL.
	Link string `json:"link"`
}

// Recommendation keys returned by market data providers. The vocabulary
// is open; anything unrecognized scores as neutral.
const (
	RecommendationBuy        = "buy"
	RecommendationStrongBuy  = "strong_buy"
	RecommendationHold       = "hold"
	RecommendationSell       = "sell"
	RecommendationStrongSell = "strong_sell"
	RecommendationUnknown    = "unknown"
)

// NoTicker is the sentinel ticker for a CIK with no mapping.
const NoTicker = "N/A"

// MarketSnapshot is a point-in-time bundle of market data for one ticker.
// Immutable once produced; the scorer treats it as a value.
type MarketSnapshot struct {
	Ticker string `json:"ticker"`
	// Available is false when the ticker is unmapped or the upstream
	// fetch failed. An unavailable snapshot is valid scoring input:
	// all market-derived sentiment terms default to neutral.
	Available      bool    `json:"available"`
	CurrentPrice   float64 `json:"current_price,omitempty"`
	HasPrice       bool    `json:"has_price"`
	Recommendation string  `json:"recommendation,omitempty"`
	TargetPrice    float64 `json:"target_price,omitempty"`
	HasTarget      bool    `json:"has_target"`
	// Headlines holds up to 3 recent headlines, most recent first.
	Headlines []string `json:"headlines,omitempty"`
}

// Impact classifications.
const (
	ImpactPositive = "positive"
	ImpactNegative = "negative"
	ImpactNeutral  = "neutral"
)

// ImpactResult is the derived scoring output. Recomputed on demand,
// never persisted.
type ImpactResult struct {
	// Score is the composite score, approximately in [-1, 1].
	Score float64 `json:"score"`
	// Classification is one of positive, negative, neutral.
	Classification string `json:"classification"`

	// Component terms, kept for observability.
	FormWeight    float64 `json:"form_weight"`
	DescSentiment float64 `json:"desc_sentiment"`
	RecSentiment  float64 `json:"rec_sentiment"`
	NewsSentiment float64 `json:"news_sentiment"`
}
