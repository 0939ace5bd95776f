package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"steam-review-service/internal/models"
)

// Artifact file names
const (
	EndUserFile         = "steam_reviews_small.csv"
	ProviderAggFile     = "provider_agg.csv"
	AdminFlagsFile      = "admin_flags.csv"
	MetricsFile         = "metrics.json"
	ConfusionMatrixFile = "confusion_matrix.csv"
)

// PlaceholderMetrics are published before any model has been trained
var PlaceholderMetrics = map[string]float64{
	"accuracy":  0.85,
	"precision": 0.84,
	"recall":    0.83,
	"f1":        0.835,
}

// PlaceholderConfusion is the matching 2x2 confusion matrix
var PlaceholderConfusion = [][]int{{1200, 300}, {260, 1240}}

// WriteEndUser writes the end-user dataset
func WriteEndUser(w io.Writer, rows []models.NormalizedReview) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "game", "text", "sentiment", "timestamp"})
	for _, r := range rows {
		writer.Write([]string{r.ID, r.Game, r.Text, string(r.Sentiment), FormatTimestamp(r.Timestamp)})
	}
	writer.Flush()
	return writer.Error()
}

// WriteAggregates writes the per-game provider summary
func WriteAggregates(w io.Writer, rows []models.ProviderAggregate) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"game", "total_reviews", "positive", "negative", "helpful_sum", "funny_sum", "neutral", "positive_rate"})
	for _, a := range rows {
		writer.Write([]string{
			a.Game,
			strconv.Itoa(a.TotalReviews),
			strconv.Itoa(a.Positive),
			strconv.Itoa(a.Negative),
			formatNumber(a.HelpfulSum),
			formatNumber(a.FunnySum),
			strconv.Itoa(a.Neutral),
			formatNumber(a.PositiveRate),
		})
	}
	writer.Flush()
	return writer.Error()
}

// WriteAdminFlags writes the moderation export
func WriteAdminFlags(w io.Writer, rows []models.AdminFlagRecord) error {
	writer := csv.NewWriter(w)
	writer.Write([]string{"id", "game", "text", "sentiment", "helpful", "funny", "playtime", "flag"})
	for _, r := range rows {
		writer.Write([]string{
			r.ID,
			r.Game,
			r.Text,
			string(r.Sentiment),
			formatNumber(r.Helpful),
			formatNumber(r.Funny),
			formatNumber(r.Playtime),
			r.Flag,
		})
	}
	writer.Flush()
	return writer.Error()
}

// WriteConfusionMatrix writes matrix with its column indexes as header
func WriteConfusionMatrix(w io.Writer, matrix [][]int) error {
	writer := csv.NewWriter(w)
	if len(matrix) > 0 {
		header := make([]string, len(matrix[0]))
		for i := range header {
			header[i] = strconv.Itoa(i)
		}
		writer.Write(header)
	}
	for _, row := range matrix {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = strconv.Itoa(v)
		}
		writer.Write(record)
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSONFile writes v as indented JSON, creating parent directories
func WriteJSONFile(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteFile creates path (and its directory) and fills it with write
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
