package dataset

import (
	"math"
	"strconv"
	"strings"

	"steam-review-service/internal/models"
)

var truthy = map[string]bool{"true": true, "1": true, "yes": true, "y": true}

// FromRecommendation maps a recommendation flag to positive or negative.
// Unknown and missing values are negative.
func FromRecommendation(value string) models.Sentiment {
	if truthy[strings.ToLower(strings.TrimSpace(value))] {
		return models.Positive
	}
	return models.Negative
}

// ParseSentiment passes canonical labels through unchanged. Anything else is
// negative, like an unrecognised recommendation flag.
func ParseSentiment(value string) models.Sentiment {
	switch s := models.Sentiment(strings.ToLower(strings.TrimSpace(value))); s {
	case models.Positive, models.Negative, models.Neutral:
		return s
	}
	return models.Negative
}

// ScoreDomain is the encoding detected for a score column
type ScoreDomain int

const (
	DomainBinary  ScoreDomain = iota // {0,1}
	DomainTernary                    // {-1,0,1}
	DomainGeneral                    // anything else
)

func (d ScoreDomain) String() string {
	switch d {
	case DomainBinary:
		return "binary"
	case DomainTernary:
		return "ternary"
	default:
		return "general"
	}
}

// DetectScoreDomain inspects observed values; NaN entries are ignored
func DetectScoreDomain(scores []float64) ScoreDomain {
	domain := DomainBinary
	for _, s := range scores {
		if math.IsNaN(s) {
			continue
		}
		switch s {
		case 0, 1:
		case -1:
			domain = DomainTernary
		default:
			return DomainGeneral
		}
	}
	return domain
}

// InferFromScores classifies raw score values after detecting their domain.
// Binary scores never produce neutral; otherwise the sign decides and zero
// or missing is neutral.
func InferFromScores(values []string) ([]models.Sentiment, ScoreDomain) {
	scores := make([]float64, len(values))
	for i, v := range values {
		scores[i] = coerceNumber(v)
	}

	domain := DetectScoreDomain(scores)
	out := make([]models.Sentiment, len(scores))
	for i, s := range scores {
		if domain == DomainBinary {
			if s >= 1 {
				out[i] = models.Positive
			} else {
				out[i] = models.Negative
			}
			continue
		}
		switch {
		case s > 0:
			out[i] = models.Positive
		case s < 0:
			out[i] = models.Negative
		default:
			out[i] = models.Neutral
		}
	}
	return out, domain
}

// coerceNumber parses a numeric cell; non-numeric values are NaN.
// Boolean literals count as 1 and 0.
func coerceNumber(value string) float64 {
	v := strings.TrimSpace(value)
	switch strings.ToLower(v) {
	case "":
		return math.NaN()
	case "true":
		return 1
	case "false":
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// numberOrZero is coerceNumber with missing values replaced by zero
func numberOrZero(value string) float64 {
	f := coerceNumber(value)
	if math.IsNaN(f) {
		return 0
	}
	return f
}
