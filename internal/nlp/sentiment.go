package nlp

import (
	"fmt"

	"github.com/jonreiter/govader"
	"github.com/liliang-cn/alfred/internal/domain"
)

// SentimentAnalyzer scores the polarity and subjectivity of text
type SentimentAnalyzer interface {
	Analyze(text string) (domain.Sentiment, error)
}

// VaderAnalyzer scores text with the VADER lexicon.
// Polarity is the compound score in [-1, 1]; subjectivity is the share of
// the text carrying sentiment, 1 - neutral, in [0, 1].
type VaderAnalyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

var _ SentimentAnalyzer = (*VaderAnalyzer)(nil)

// NewVaderAnalyzer loads the embedded VADER lexicon
func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Analyze scores text
func (v *VaderAnalyzer) Analyze(text string) (s domain.Sentiment, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: sentiment: %v", domain.ErrAnalysisFailed, rec)
		}
	}()

	scores := v.sia.PolarityScores(text)
	return domain.Sentiment{
		Polarity:     clamp(scores.Compound, -1, 1),
		Subjectivity: clamp(1-scores.Neutral, 0, 1),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
