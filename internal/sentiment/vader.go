package sentiment

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer produces a compound polarity score in [-1, 1] for a piece of text.
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Score(text string) float64 {
	return f(text)
}

var (
	ErrLexiconUnavailable = errors.New("[VADER] sentiment lexicon unavailable")

	probePositive = "good"
	probeNegative = "bad"
)

// VaderScorer wraps a govader analyzer. The analyzer only reads its lexicon
// after construction, so a single instance is shared by all requests.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer builds the analyzer and runs a probe against the loaded
// lexicon. A scorer that cannot tell "good" from "bad" is not usable.
func NewVaderScorer() (scorer *VaderScorer, err error) {
	defer func() {
		if r := recover(); r != nil {
			scorer = nil
			err = fmt.Errorf("%w: %v", ErrLexiconUnavailable, r)
		}
	}()

	scorer = &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
	if err := scorer.Check(); err != nil {
		return nil, err
	}

	slog.Info("[VADER] Sentiment analyzer initialized")
	return scorer, nil
}

// Check verifies the lexicon still scores the probe words with the expected sign.
func (v *VaderScorer) Check() error {
	if v == nil || v.analyzer == nil {
		return ErrLexiconUnavailable
	}
	pos := v.Score(probePositive)
	neg := v.Score(probeNegative)
	if pos <= 0 || neg >= 0 {
		return fmt.Errorf("%w: probe scores %.4f/%.4f", ErrLexiconUnavailable, pos, neg)
	}
	return nil
}

func (v *VaderScorer) Score(text string) float64 {
	// blank input carries no lexicon entries
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.analyzer.PolarityScores(text).Compound
}
