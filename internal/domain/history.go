package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// History retention policy: when a series exceeds HistoryCap points it is
// trimmed from the oldest end down to HistoryFloor. Trimming in batches
// rather than per-append avoids shifting the slice on every refresh.
const (
	HistoryCap   = 500
	HistoryFloor = 400
)

// HistoryPoint is one observed value of a category at a point in time.
type HistoryPoint struct {
	Timestamp time.Time       `json:"date"`
	Value     decimal.Decimal `json:"value"`
}

// HistorySeries is an append-only ordered sequence of history points.
type HistorySeries []HistoryPoint

// SameMinuteAsLast reports whether ts falls within the same minute-resolution
// bucket as the latest stored point. Used to suppress duplicate appends from
// rapid refreshes.
func (s HistorySeries) SameMinuteAsLast(ts time.Time) bool {
	if len(s) == 0 {
		return false
	}
	last := s[len(s)-1].Timestamp
	return last.Truncate(time.Minute).Equal(ts.Truncate(time.Minute))
}

// Append adds a point to the series and applies the retention policy.
func (s HistorySeries) Append(ts time.Time, value decimal.Decimal) HistorySeries {
	out := s
	if len(out) > HistoryCap {
		out = append(HistorySeries{}, out[len(out)-HistoryFloor:]...)
	}
	return append(out, HistoryPoint{Timestamp: ts, Value: value})
}

// Since returns the points strictly newer than the cutoff.
func (s HistorySeries) Since(cutoff time.Time) HistorySeries {
	for i, p := range s {
		if p.Timestamp.After(cutoff) {
			return s[i:]
		}
	}
	return nil
}
