package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// TimeLayout is the timestamp format of written artifacts
const TimeLayout = "2006-01-02 15:04:05"

// epochMillisThreshold separates unix seconds from unix milliseconds
const epochMillisThreshold = 1e12

// maxEpochSeconds is 9999-12-31T23:59:59Z; larger epochs are treated as garbage
const maxEpochSeconds = 253402300799

// ParseTimestamp accepts bare unix epochs (seconds, or milliseconds above
// 1e12) and any date layout dateparse understands. Zone-less values are
// read as UTC. Unparseable or out-of-range values return nil.
func ParseTimestamp(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n > epochMillisThreshold || n < -epochMillisThreshold {
			return epochTime(float64(n) / 1000)
		}
		return epochTime(float64(n))
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f > epochMillisThreshold || f < -epochMillisThreshold {
			f /= 1000
		}
		return epochTime(f)
	}

	// Steam's "Posted: 1 March 2024" prefix
	v = strings.TrimPrefix(v, "Posted: ")
	t, err := dateparse.ParseIn(v, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func epochTime(sec float64) *time.Time {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || math.Abs(sec) > maxEpochSeconds {
		return nil
	}
	whole, frac := math.Modf(sec)
	t := time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC()
	return &t
}

// FormatTimestamp renders t for CSV output; nil is empty
func FormatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimeLayout)
}
