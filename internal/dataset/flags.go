package dataset

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"steam-review-service/internal/models"
)

// FlagText returns the comma-joined admin flags raised by text, or ""
func FlagText(text string) string {
	length := utf8.RuneCountInString(text)

	var flags []string
	if length < 15 {
		flags = append(flags, models.FlagShortSpam)
	}
	if length > 15 && isUpper(text) {
		flags = append(flags, models.FlagAllCaps)
	}
	if strings.Contains(text, "http://") || strings.Contains(text, "https://") {
		flags = append(flags, models.FlagHasLink)
	}
	return strings.Join(flags, ",")
}

// isUpper reports whether s has at least one cased letter and no lowercase ones
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// AdminFlags annotates the first limit reviews. A limit of zero annotates all.
func AdminFlags(reviews []models.Review, limit int) []models.AdminFlagRecord {
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	out := make([]models.AdminFlagRecord, len(reviews))
	for i, r := range reviews {
		out[i] = models.AdminFlagRecord{
			ID:        r.ID,
			Game:      r.Game,
			Text:      r.Text,
			Sentiment: r.Sentiment,
			Helpful:   r.Helpful,
			Funny:     r.Funny,
			Playtime:  r.Playtime,
			Flag:      FlagText(r.Text),
		}
	}
	return out
}
