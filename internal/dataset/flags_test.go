package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"steam-review-service/internal/models"
)

func TestFlagText(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"short", "short_spam"},
		{"THIS GAME IS AMAZING!!", "all_caps"},
		{"AAAAAAAAAAAAAAA", ""}, // exactly 15: neither short nor caps
		{"AAAAAAAAAAAAAAAA", "all_caps"},
		{"see https://x.io", "has_link"},
		{"http://a", "short_spam,has_link"},
		{"CHECK HTTP://X.IO NOW!!", "all_caps"},
		{"BUY NOW http://spam.example", "has_link"},
		{"FREE SKINS AT https://spam.example", "has_link"},
		{"12345678901234567", ""},
		{"A perfectly normal review", ""},
		{"", "short_spam"},
		{"ÉNORME JEU, VRAIMENT!", "all_caps"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, FlagText(tt.text))
		})
	}
}

func TestFlagTextNoDuplicates(t *testing.T) {
	for _, text := range []string{"http://x https://y http://z", "HTTPS://A.B http://c.d!!"} {
		flags := strings.Split(FlagText(text), ",")
		seen := map[string]bool{}
		for _, f := range flags {
			assert.False(t, seen[f], "duplicate flag %q for %q", f, text)
			seen[f] = true
		}
	}
}

func TestAdminFlagsLimit(t *testing.T) {
	reviews := make([]models.Review, 12)
	for i := range reviews {
		reviews[i] = models.Review{ID: string(rune('a' + i)), Text: "tiny", Helpful: 2, Playtime: 90}
	}

	out := AdminFlags(reviews, 10)
	assert.Len(t, out, 10)
	assert.Equal(t, "short_spam", out[0].Flag)
	assert.Equal(t, 2.0, out[0].Helpful)
	assert.Equal(t, 90.0, out[0].Playtime)

	assert.Len(t, AdminFlags(reviews, 0), 12)
}
