// Package pricing tracks historical filament prices: per-spool histories,
// trend classification, price-change alerts, and best-deal ranking.
package pricing

import (
	"time"

	"github.com/corey/spool/internal/ports"
)

// Trend classifies price movement over a trailing window.
type Trend string

const (
	TrendStable     Trend = "stable"
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
)

// stableBandPct is the |mean change| below which a price counts as stable.
const stableBandPct = 0.5

// TrendOver classifies the price movement of h over the trailing window of
// days, returning the trend and the mean percentage change between
// consecutive in-window entries. Fewer than two in-window entries reads as
// stable with zero change.
func TrendOver(h *ports.PriceHistory, days int, now time.Time) (Trend, float64) {
	recent := entriesSince(h, now.AddDate(0, 0, -days).Unix())
	if len(recent) < 2 {
		return TrendStable, 0
	}

	var sum float64
	var count int
	for i := 1; i < len(recent); i++ {
		prev := recent[i-1].PricePerGram
		if prev <= 0 {
			continue
		}
		sum += (recent[i].PricePerGram - prev) / prev * 100
		count++
	}
	if count == 0 {
		return TrendStable, 0
	}

	mean := sum / float64(count)
	switch {
	case mean > -stableBandPct && mean < stableBandPct:
		return TrendStable, mean
	case mean > 0:
		return TrendIncreasing, mean
	default:
		return TrendDecreasing, mean
	}
}

// Latest returns the most recent entry of h, or nil for an empty history.
func Latest(h *ports.PriceHistory) *ports.PriceEntry {
	var latest *ports.PriceEntry
	for _, e := range h.Entries {
		if latest == nil || e.RecordedAt > latest.RecordedAt {
			latest = e
		}
	}
	return latest
}

// entriesSince returns the entries recorded at or after cutoff, in recorded
// order. Histories are kept sorted, so the result is too.
func entriesSince(h *ports.PriceHistory, cutoff int64) []*ports.PriceEntry {
	var out []*ports.PriceEntry
	for _, e := range h.Entries {
		if e.RecordedAt >= cutoff {
			out = append(out, e)
		}
	}
	return out
}
