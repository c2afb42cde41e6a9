// Package impact computes the directional impact classification for a
// filing from form-type, textual-sentiment, and market-sentiment terms.
// Everything in this package is pure: no I/O, no clock, no storage.
package impact

import (
	"github.com/jonreiter/govader"
)

// Analyzer produces a compound sentiment polarity in [-1, 1] for a text.
type Analyzer interface {
	Compound(text string) float64
}

// VADERAnalyzer implements Analyzer with the VADER lexicon model.
type VADERAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVADERAnalyzer creates a VADER-backed analyzer.
func NewVADERAnalyzer() *VADERAnalyzer {
	return &VADERAnalyzer{
		sia: govader.NewSentimentIntensityAnalyzer(),
	}
}

// Compound returns the compound polarity score for the text.
func (a *VADERAnalyzer) Compound(text string) float64 {
	return a.sia.PolarityScores(text).Compound
}
