package etl

import (
	"strings"
	"unicode"
)

// DefaultLexicon is the fixed keyword weight table used when a source carries no
// sentiment_score column. Weight magnitudes never exceed 1.5.
var DefaultLexicon = map[string]float64{
	// positive
	"great":      1.5,
	"excellent":  1.5,
	"strong":     1.0,
	"beat":       1.0,
	"beats":      1.0,
	"upgrade":    1.0,
	"upgraded":   1.0,
	"growth":     0.8,
	"bullish":    1.2,
	"record":     0.6,
	"good":       0.8,
	"positive":   0.8,
	"improved":   0.7,
	"improving":  0.7,
	"robust":     0.8,
	"outperform": 1.0,
	"profit":     0.5,
	"gain":       0.6,
	"gains":      0.6,
	"resilient":  0.6,
	"momentum":   0.4,
	"optimistic": 0.9,
	"surge":      1.0,
	"raised":     0.5,

	// negative
	"bad":          -1.0,
	"weak":         -1.0,
	"miss":         -1.0,
	"missed":       -1.0,
	"downgrade":    -1.0,
	"downgraded":   -1.0,
	"bearish":      -1.2,
	"poor":         -1.0,
	"negative":     -0.8,
	"decline":      -0.7,
	"declining":    -0.7,
	"loss":         -0.8,
	"losses":       -0.8,
	"risk":         -0.4,
	"risks":        -0.4,
	"concern":      -0.5,
	"concerns":     -0.5,
	"lawsuit":      -0.9,
	"recall":       -0.9,
	"layoffs":      -0.8,
	"slump":        -1.0,
	"cut":          -0.5,
	"underperform": -1.0,
	"terrible":     -1.5,
	"awful":        -1.5,
	"pessimistic":  -0.9,
}

// LexiconScorer sums per-token weights over lowercase alphabetic tokens
type LexiconScorer struct {
	weights map[string]float64
}

// NewLexiconScorer creates a scorer over weights; nil uses DefaultLexicon
func NewLexiconScorer(weights map[string]float64) *LexiconScorer {
	if weights == nil {
		weights = DefaultLexicon
	}
	return &LexiconScorer{weights: weights}
}

// Score returns the unclipped sum of token weights. Unknown tokens weigh 0.
func (s *LexiconScorer) Score(text string) float64 {
	total := 0.0
	for _, token := range Tokenize(text) {
		total += s.weights[token]
	}
	return total
}

// Tokenize splits text into lowercase runs of letters
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
