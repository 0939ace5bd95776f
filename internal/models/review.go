package models

import "time"

// Sentiment is the canonical polarity of a review
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Admin flag names
const (
	FlagShortSpam = "short_spam"
	FlagAllCaps   = "all_caps"
	FlagHasLink   = "has_link"
)

// Review is one input row after column resolution and value cleanup.
// Every input row produces a Review, whether or not it qualifies for the
// end-user dataset.
type Review struct {
	ID        string
	Game      string // empty when the source value was missing
	Text      string
	Sentiment Sentiment
	Helpful   float64
	Funny     float64
	Playtime  float64
	Timestamp *time.Time // nil when the source value could not be parsed
}

// NormalizedReview is a row of the end-user dataset (steam_reviews_small.csv)
type NormalizedReview struct {
	ID        string     `json:"id"`
	Game      string     `json:"game"`
	Text      string     `json:"text"`
	Sentiment Sentiment  `json:"sentiment"`
	Timestamp *time.Time `json:"timestamp"`
}

// ProviderAggregate holds per-game counters (provider_agg.csv)
type ProviderAggregate struct {
	Game         string  `json:"game"`
	TotalReviews int     `json:"total_reviews"`
	Positive     int     `json:"positive"`
	Negative     int     `json:"negative"`
	Neutral      int     `json:"neutral"`
	HelpfulSum   float64 `json:"helpful_sum"`
	FunnySum     float64 `json:"funny_sum"`
	PositiveRate float64 `json:"positive_rate"`
}

// AdminFlagRecord is a row of the moderation export (admin_flags.csv)
type AdminFlagRecord struct {
	ID        string    `json:"id"`
	Game      string    `json:"game"`
	Text      string    `json:"text"`
	Sentiment Sentiment `json:"sentiment"`
	Helpful   float64   `json:"helpful"`
	Funny     float64   `json:"funny"`
	Playtime  float64   `json:"playtime"`
	Flag      string    `json:"flag"` // comma-joined flag names, empty when clean
}
