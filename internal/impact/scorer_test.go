package impact

import (
	"math"
	"testing"

	"github.com/ternarybob/edgar/internal/models"
)

// stubAnalyzer returns a fixed compound score for every text, letting
// tests pin the sentiment terms without depending on lexicon details.
type stubAnalyzer struct {
	score float64
}

func (s stubAnalyzer) Compound(text string) float64 { return s.score }

// mapAnalyzer returns per-text scores, defaulting to 0.
type mapAnalyzer struct {
	scores map[string]float64
}

func (m mapAnalyzer) Compound(text string) float64 { return m.scores[text] }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFormWeight(t *testing.T) {
	tests := []struct {
		formType string
		want     float64
	}{
		{"8-K", 0.2},
		{"10-Q", 0.1},
		{"10-K", 0.1},
		{"4", -0.3},
		{"SC 13D", 0.4},
		{"S-1", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := FormWeight(tt.formType); !almostEqual(got, tt.want) {
			t.Errorf("FormWeight(%q) = %v, want %v", tt.formType, got, tt.want)
		}
	}
}

func TestScoreSC13DWithBuyRecommendation(t *testing.T) {
	scorer := NewScorer(stubAnalyzer{score: 0})

	filing := models.Filing{FormType: "SC 13D", Company: "Acme Holdings"}
	snapshot := models.MarketSnapshot{
		Ticker:         "ACME",
		Available:      true,
		Recommendation: models.RecommendationBuy,
	}

	result := scorer.Score(filing, snapshot)

	if !almostEqual(result.Score, 0.175) {
		t.Errorf("Score = %v, want 0.175", result.Score)
	}
	if result.Classification != models.ImpactPositive {
		t.Errorf("Classification = %q, want %q", result.Classification, models.ImpactPositive)
	}
	if !almostEqual(result.FormWeight, 0.4) {
		t.Errorf("FormWeight = %v, want 0.4", result.FormWeight)
	}
	if !almostEqual(result.RecSentiment, 0.3) {
		t.Errorf("RecSentiment = %v, want 0.3", result.RecSentiment)
	}
}

func TestScoreDeterminism(t *testing.T) {
	scorer := NewScorer(stubAnalyzer{score: 0.15})

	filing := models.Filing{FormType: "8-K", Company: "Acme Holdings"}
	snapshot := models.MarketSnapshot{
		Ticker:         "ACME",
		Available:      true,
		Recommendation: models.RecommendationHold,
		Headlines:      []string{"Acme reports record quarter", "Acme guidance raised"},
	}

	first := scorer.Score(filing, snapshot)
	for i := 0; i < 5; i++ {
		if got := scorer.Score(filing, snapshot); got != first {
			t.Fatalf("Score not deterministic: run %d gave %+v, first gave %+v", i, got, first)
		}
	}
}

func TestRecommendationSentiment(t *testing.T) {
	tests := []struct {
		recommendation string
		want           float64
	}{
		{models.RecommendationBuy, 0.3},
		{models.RecommendationStrongBuy, 0.3},
		{models.RecommendationSell, -0.2},
		{models.RecommendationStrongSell, -0.2},
		{models.RecommendationHold, 0},
		{models.RecommendationUnknown, 0},
		{"overweight", 0},
	}

	scorer := NewScorer(stubAnalyzer{score: 0})
	filing := models.Filing{FormType: "10-Q", Company: "Acme Holdings"}

	for _, tt := range tests {
		snapshot := models.MarketSnapshot{Ticker: "ACME", Available: true, Recommendation: tt.recommendation}
		result := scorer.Score(filing, snapshot)
		if !almostEqual(result.RecSentiment, tt.want) {
			t.Errorf("recommendation %q: RecSentiment = %v, want %v", tt.recommendation, result.RecSentiment, tt.want)
		}
	}
}

func TestStrongBuyNeverScoresBelowSell(t *testing.T) {
	scorer := NewScorer(stubAnalyzer{score: 0.05})
	filing := models.Filing{FormType: "8-K", Company: "Acme Holdings"}

	buySnap := models.MarketSnapshot{Ticker: "ACME", Available: true, Recommendation: models.RecommendationStrongBuy}
	sellSnap := models.MarketSnapshot{Ticker: "ACME", Available: true, Recommendation: models.RecommendationStrongSell}

	buy := scorer.Score(filing, buySnap)
	sell := scorer.Score(filing, sellSnap)

	if buy.Score <= sell.Score {
		t.Errorf("strong_buy score %v not greater than strong_sell score %v", buy.Score, sell.Score)
	}
}

func TestUnavailableSnapshotEqualsNeutralMarket(t *testing.T) {
	scorer := NewScorer(stubAnalyzer{score: 0.02})
	filing := models.Filing{FormType: "10-K", Company: "Acme Holdings"}

	unavailable := models.MarketSnapshot{Ticker: models.NoTicker, Available: false}
	neutral := models.MarketSnapshot{
		Ticker:         "ACME",
		Available:      true,
		Recommendation: models.RecommendationHold,
	}

	got := scorer.Score(filing, unavailable)
	want := scorer.Score(filing, neutral)

	if !almostEqual(got.Score, want.Score) || got.Classification != want.Classification {
		t.Errorf("unavailable snapshot scored %+v, neutral market scored %+v", got, want)
	}
}

func TestHeadlineScoreMeanAndCap(t *testing.T) {
	analyzer := mapAnalyzer{scores: map[string]float64{
		"first":  0.6,
		"second": 0.3,
		"third":  0.0,
		"fourth": -0.9,
	}}
	scorer := NewScorer(analyzer)
	filing := models.Filing{FormType: "", Company: ""}

	snapshot := models.MarketSnapshot{
		Ticker:    "ACME",
		Available: true,
		Headlines: []string{"first", "second", "third", "fourth"},
	}

	result := scorer.Score(filing, snapshot)

	// Mean of the first three only; the fourth must not drag the score.
	if !almostEqual(result.NewsSentiment, 0.3) {
		t.Errorf("NewsSentiment = %v, want 0.3", result.NewsSentiment)
	}
}

func TestClassificationBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  string
	}{
		{"well above threshold", 0.5, models.ImpactPositive},
		{"exactly positive threshold", 0.1, models.ImpactNeutral},
		{"zero", 0, models.ImpactNeutral},
		{"exactly negative threshold", -0.1, models.ImpactNeutral},
		{"well below threshold", -0.5, models.ImpactNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.total); got != tt.want {
				t.Errorf("classify(%v) = %q, want %q", tt.total, got, tt.want)
			}
		})
	}
}
