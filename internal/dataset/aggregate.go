package dataset

import (
	"math"
	"sort"

	"steam-review-service/internal/models"
)

// Aggregate counts sentiments and sums vote counters per game. Reviews without
// a game are skipped. Games are ordered by review count, most reviewed first;
// equal counts keep alphabetical order.
func Aggregate(reviews []models.Review) []models.ProviderAggregate {
	byGame := map[string]*models.ProviderAggregate{}
	for _, r := range reviews {
		if r.Game == "" {
			continue
		}
		agg, ok := byGame[r.Game]
		if !ok {
			agg = &models.ProviderAggregate{Game: r.Game}
			byGame[r.Game] = agg
		}
		agg.TotalReviews++
		switch r.Sentiment {
		case models.Positive:
			agg.Positive++
		case models.Negative:
			agg.Negative++
		case models.Neutral:
			agg.Neutral++
		}
		agg.HelpfulSum += r.Helpful
		agg.FunnySum += r.Funny
	}

	out := make([]models.ProviderAggregate, 0, len(byGame))
	for _, agg := range byGame {
		agg.PositiveRate = round4(float64(agg.Positive) / float64(agg.TotalReviews))
		out = append(out, *agg)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalReviews != out[j].TotalReviews {
			return out[i].TotalReviews > out[j].TotalReviews
		}
		return out[i].Game < out[j].Game
	})
	return out
}

func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}
