package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"steam-review-service/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// Options bounds the derived datasets
type Options struct {
	EndUserLimit  int // rows kept in the end-user dataset
	AdminLimit    int // rows annotated with admin flags
	MinTextLength int // texts must be strictly longer than this
}

// DefaultOptions matches the dashboard expectations
func DefaultOptions() Options {
	return Options{EndUserLimit: 5000, AdminLimit: 10000, MinTextLength: 5}
}

// Result holds everything derived from one input table
type Result struct {
	Columns     ColumnMap
	ScoreDomain *ScoreDomain // set when sentiment came from a score column
	Reviews     []models.Review
	EndUser     []models.NormalizedReview
	Aggregates  []models.ProviderAggregate
	Flags       []models.AdminFlagRecord
}

// Normalize resolves the columns of table and derives every dataset from it.
// now stamps all rows when the table has no timestamp column.
func Normalize(table *Table, opts Options, now time.Time) (*Result, error) {
	columns, err := ResolveColumns(table.Columns, DefaultRoles)
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: columns}
	res.Reviews = buildReviews(table, columns, now, res)
	res.EndUser = EndUserReviews(res.Reviews, opts.MinTextLength, opts.EndUserLimit)
	res.Aggregates = Aggregate(res.Reviews)
	res.Flags = AdminFlags(res.Reviews, opts.AdminLimit)
	return res, nil
}

func buildReviews(table *Table, columns ColumnMap, now time.Time, res *Result) []models.Review {
	n := table.Len()
	reviews := make([]models.Review, n)

	texts := table.Column(columns.Text)
	for i := range reviews {
		reviews[i].Text = CleanText(texts[i])
	}

	if columns.Game != "" {
		for i, g := range table.Column(columns.Game) {
			reviews[i].Game = strings.TrimSpace(g)
		}
	} else {
		for i, id := range table.Column(columns.AppID) {
			if id != "" {
				reviews[i].Game = "Unknown_" + strings.TrimSpace(id)
			}
		}
	}

	switch {
	case columns.Recommended != "":
		for i, v := range table.Column(columns.Recommended) {
			reviews[i].Sentiment = FromRecommendation(v)
		}
	case columns.Score != "":
		sentiments, domain := InferFromScores(table.Column(columns.Score))
		res.ScoreDomain = &domain
		for i, s := range sentiments {
			reviews[i].Sentiment = s
		}
	default:
		for i, v := range table.Column(columns.Label) {
			reviews[i].Sentiment = ParseSentiment(v)
		}
	}

	fillNumbers(table, columns.Helpful, reviews, func(r *models.Review, f float64) { r.Helpful = f })
	fillNumbers(table, columns.Funny, reviews, func(r *models.Review, f float64) { r.Funny = f })
	fillNumbers(table, columns.Playtime, reviews, func(r *models.Review, f float64) { r.Playtime = f })

	if columns.ID != "" {
		for i, id := range table.Column(columns.ID) {
			reviews[i].ID = id
		}
	} else {
		for i := range reviews {
			reviews[i].ID = strconv.Itoa(i + 1)
		}
	}

	if columns.Timestamp != "" {
		for i, v := range table.Column(columns.Timestamp) {
			reviews[i].Timestamp = ParseTimestamp(v)
		}
	} else {
		stamp := now.UTC()
		for i := range reviews {
			reviews[i].Timestamp = &stamp
		}
	}

	return reviews
}

func fillNumbers(table *Table, column string, reviews []models.Review, set func(*models.Review, float64)) {
	if column == "" {
		return
	}
	for i, v := range table.Column(column) {
		set(&reviews[i], numberOrZero(v))
	}
}

// CleanText collapses whitespace runs and trims the result
func CleanText(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// EndUserReviews keeps reviews with a game and a text longer than minLength
// characters, at most limit of them in input order. A limit of zero keeps all.
func EndUserReviews(reviews []models.Review, minLength, limit int) []models.NormalizedReview {
	var out []models.NormalizedReview
	for _, r := range reviews {
		if limit > 0 && len(out) >= limit {
			break
		}
		if r.Game == "" || utf8.RuneCountInString(r.Text) <= minLength {
			continue
		}
		out = append(out, models.NormalizedReview{
			ID:        r.ID,
			Game:      r.Game,
			Text:      r.Text,
			Sentiment: r.Sentiment,
			Timestamp: r.Timestamp,
		})
	}
	return out
}
