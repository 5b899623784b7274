package pricing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corey/spool/internal/ports"
)

// DefaultCurrency is assumed when a price is recorded without one.
const DefaultCurrency = "USD"

// dealTrendDays is the trailing window used to annotate deals with a trend.
const dealTrendDays = 30

// Alert describes a significant price move within a look-back window.
type Alert struct {
	SpoolID     string
	Material    string
	OldPrice    float64
	NewPrice    float64
	ChangePct   float64
	Direction   string // "increase" or "decrease"
	FirstSeen   int64
	LastUpdated int64
	NumChanges  int
}

// Deal is a spool's latest known price annotated with its recent trend.
type Deal struct {
	SpoolID      string
	Material     string
	PricePerGram float64
	Currency     string
	Source       string
	LastUpdated  int64
	Trend        Trend
	ChangePct    float64
}

// Tracker records and analyzes price points through a PriceStore.
type Tracker struct {
	store  ports.PriceStore
	logger *slog.Logger
	now    func() time.Time
}

// NewTracker creates a Tracker over the given store.
func NewTracker(store ports.PriceStore, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// Record appends a price point for a spool and persists its history.
func (t *Tracker) Record(spoolID, material string, pricePerGram float64, currency, source string) (*ports.PriceEntry, error) {
	if spoolID == "" {
		return nil, fmt.Errorf("spool id required")
	}
	if pricePerGram <= 0 {
		return nil, fmt.Errorf("price per gram must be positive, got %v", pricePerGram)
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	h, err := t.store.LoadHistory(spoolID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		h = &ports.PriceHistory{SpoolID: spoolID, Material: material}
	}

	entry := &ports.PriceEntry{
		ID:           uuid.NewString(),
		SpoolID:      spoolID,
		Material:     material,
		PricePerGram: pricePerGram,
		Currency:     currency,
		Source:       source,
		RecordedAt:   t.now().Unix(),
	}
	h.Entries = append(h.Entries, entry)
	sort.SliceStable(h.Entries, func(i, j int) bool {
		return h.Entries[i].RecordedAt < h.Entries[j].RecordedAt
	})

	if err := t.store.SaveHistory(spoolID, h); err != nil {
		return nil, err
	}
	t.logger.Info("recorded price", "spool", spoolID, "price_per_gram", pricePerGram)
	return entry, nil
}

// History returns the price history for a spool, or nil if untracked.
func (t *Tracker) History(spoolID string) (*ports.PriceHistory, error) {
	return t.store.LoadHistory(spoolID)
}

// Alerts returns spools whose price moved at least thresholdPct (comparing
// the first and latest entries inside the trailing days window), sorted by
// absolute change descending.
func (t *Tracker) Alerts(thresholdPct float64, days int) ([]*Alert, error) {
	histories, err := t.store.LoadAllHistories()
	if err != nil {
		return nil, err
	}

	cutoff := t.now().AddDate(0, 0, -days).Unix()
	var alerts []*Alert
	for _, h := range histories {
		recent := entriesSince(h, cutoff)
		if len(recent) < 2 {
			continue
		}
		first, latest := recent[0], recent[len(recent)-1]
		if first.PricePerGram <= 0 {
			continue
		}
		changePct := (latest.PricePerGram - first.PricePerGram) / first.PricePerGram * 100
		if math.Abs(changePct) < thresholdPct {
			continue
		}
		direction := "increase"
		if changePct < 0 {
			direction = "decrease"
		}
		alerts = append(alerts, &Alert{
			SpoolID:     h.SpoolID,
			Material:    h.Material,
			OldPrice:    first.PricePerGram,
			NewPrice:    latest.PricePerGram,
			ChangePct:   changePct,
			Direction:   direction,
			FirstSeen:   first.RecordedAt,
			LastUpdated: latest.RecordedAt,
			NumChanges:  len(recent) - 1,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		return math.Abs(alerts[i].ChangePct) > math.Abs(alerts[j].ChangePct)
	})
	return alerts, nil
}

// BestDeals returns up to limit spools with the lowest latest price,
// optionally filtered by material (case-insensitive), cheapest first.
func (t *Tracker) BestDeals(material string, limit int) ([]*Deal, error) {
	histories, err := t.store.LoadAllHistories()
	if err != nil {
		return nil, err
	}

	now := t.now()
	var deals []*Deal
	for _, h := range histories {
		if material != "" && !strings.EqualFold(h.Material, material) {
			continue
		}
		latest := Latest(h)
		if latest == nil {
			continue
		}
		trend, changePct := TrendOver(h, dealTrendDays, now)
		deals = append(deals, &Deal{
			SpoolID:      h.SpoolID,
			Material:     h.Material,
			PricePerGram: latest.PricePerGram,
			Currency:     latest.Currency,
			Source:       latest.Source,
			LastUpdated:  latest.RecordedAt,
			Trend:        trend,
			ChangePct:    changePct,
		})
	}

	sort.Slice(deals, func(i, j int) bool {
		return deals[i].PricePerGram < deals[j].PricePerGram
	})
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}
	return deals, nil
}
