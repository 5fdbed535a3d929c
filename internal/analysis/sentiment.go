// Package analysis layers market interpretation on top of raw indicators.
package analysis

import (
	"strings"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

var (
	positiveWords = []string{
		"rally", "surge", "gain", "bullish", "record", "high", "growth",
		"strong", "upgrade", "beat", "positive", "rise", "advance",
	}
	negativeWords = []string{
		"fall", "drop", "decline", "bearish", "crash", "low", "weak",
		"downgrade", "miss", "negative", "slump", "fear", "selloff",
	}
)

// Sentiment scores free-form market text by keyword balance. Crude on
// purpose: it feeds a confidence dial, not a trading decision.
func Sentiment(text string) models.SentimentResult {
	lower := strings.ToLower(text)

	var positive, negative int
	for _, w := range positiveWords {
		positive += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		negative += strings.Count(lower, w)
	}

	total := positive + negative
	result := models.SentimentResult{
		Positive: positive,
		Negative: negative,
	}
	if total == 0 {
		result.Sentiment = models.TrendNeutral
		result.Confidence = 0.5
		return result
	}

	result.Score = float64(positive-negative) / float64(total)
	switch {
	case result.Score > 0.2:
		result.Sentiment = models.TrendBullish
	case result.Score < -0.2:
		result.Sentiment = models.TrendBearish
	default:
		result.Sentiment = models.TrendNeutral
	}

	// Confidence grows with the margin between the keyword counts.
	result.Confidence = 0.5 + 0.5*absFloat(result.Score)
	return result
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
