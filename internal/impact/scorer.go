package impact

import (
	"github.com/ternarybob/edgar/internal/models"
)

// Classification thresholds and the equal four-way weighting below are
// load-bearing policy constants. Changing them changes classification
// outcomes and is a versioned policy change, not a tweak.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
	componentCount    = 4.0
)

// Recommendation sentiment terms.
const (
	recBuyScore  = 0.3
	recSellScore = -0.2
)

// formWeights maps form types to their categorical weight. Unknown form
// types score 0 rather than being rejected.
var formWeights = map[string]float64{
	"8-K":    0.2,
	"10-Q":   0.1,
	"10-K":   0.1,
	"4":      -0.3,
	"SC 13D": 0.4,
}

// FormWeight returns the categorical weight for a form type.
func FormWeight(formType string) float64 {
	return formWeights[formType]
}

// Scorer combines the four impact terms into one classification.
type Scorer struct {
	analyzer Analyzer
}

// NewScorer creates a scorer using the given sentiment analyzer.
func NewScorer(analyzer Analyzer) *Scorer {
	return &Scorer{analyzer: analyzer}
}

// Score derives the impact result for a filing and its market snapshot.
// Deterministic and side-effect free: identical inputs yield identical
// results. An unavailable snapshot contributes neutral market terms.
func (s *Scorer) Score(filing models.Filing, snapshot models.MarketSnapshot) models.ImpactResult {
	formWeight := FormWeight(filing.FormType)
	descSentiment := s.analyzer.Compound(filing.Company + " " + filing.FormType)
	recSentiment := recommendationScore(snapshot)
	newsSentiment := s.headlineScore(snapshot)

	total := (formWeight + descSentiment + recSentiment + newsSentiment) / componentCount

	return models.ImpactResult{
		Score:          total,
		Classification: classify(total),
		FormWeight:     formWeight,
		DescSentiment:  descSentiment,
		RecSentiment:   recSentiment,
		NewsSentiment:  newsSentiment,
	}
}

func recommendationScore(snapshot models.MarketSnapshot) float64 {
	if !snapshot.Available {
		return 0
	}
	switch snapshot.Recommendation {
	case models.RecommendationBuy, models.RecommendationStrongBuy:
		return recBuyScore
	case models.RecommendationSell, models.RecommendationStrongSell:
		return recSellScore
	default:
		return 0
	}
}

// headlineScore is the arithmetic mean of headline polarities, over at
// most 3 headlines; 0 when none are available.
func (s *Scorer) headlineScore(snapshot models.MarketSnapshot) float64 {
	if !snapshot.Available || len(snapshot.Headlines) == 0 {
		return 0
	}

	headlines := snapshot.Headlines
	if len(headlines) > 3 {
		headlines = headlines[:3]
	}

	sum := 0.0
	for _, h := range headlines {
		sum += s.analyzer.Compound(h)
	}
	return sum / float64(len(headlines))
}

func classify(total float64) string {
	switch {
	case total > positiveThreshold:
		return models.ImpactPositive
	case total < negativeThreshold:
		return models.ImpactNegative
	default:
		return models.ImpactNeutral
	}
}
