package pricing

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/spool/internal/ports"
)

// memStore is an in-memory ports.PriceStore for tests.
type memStore struct {
	histories map[string]*ports.PriceHistory
	usage     []*ports.UsageEntry
}

func newMemStore() *memStore {
	return &memStore{histories: make(map[string]*ports.PriceHistory)}
}

func (m *memStore) SaveHistory(spoolID string, h *ports.PriceHistory) error {
	m.histories[spoolID] = h
	return nil
}

func (m *memStore) LoadHistory(spoolID string) (*ports.PriceHistory, error) {
	return m.histories[spoolID], nil
}

func (m *memStore) LoadAllHistories() (map[string]*ports.PriceHistory, error) {
	out := make(map[string]*ports.PriceHistory, len(m.histories))
	for k, v := range m.histories {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) AppendUsage(entry *ports.UsageEntry) error {
	m.usage = append(m.usage, entry)
	return nil
}

func (m *memStore) LoadUsage() ([]*ports.UsageEntry, error) {
	return m.usage, nil
}

func (m *memStore) Close() error { return nil }

var trackerEpoch = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

// newTestTracker pins the tracker clock so window math is deterministic.
func newTestTracker(store ports.PriceStore) *Tracker {
	tr := NewTracker(store, nil)
	tr.now = func() time.Time { return trackerEpoch }
	return tr
}

// seedHistory writes a history whose i-th point is (daysAgo[i], price[i]).
func seedHistory(t *testing.T, store *memStore, spoolID, material string, points map[int]float64) {
	t.Helper()
	h := &ports.PriceHistory{SpoolID: spoolID, Material: material}
	days := make([]int, 0, len(points))
	for d := range points {
		days = append(days, d)
	}
	// Largest daysAgo first, so entries come out oldest first.
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	for i, d := range days {
		h.Entries = append(h.Entries, &ports.PriceEntry{
			ID:           spoolID + "-" + string(rune('a'+i)),
			SpoolID:      spoolID,
			Material:     material,
			PricePerGram: points[d],
			Currency:     DefaultCurrency,
			RecordedAt:   trackerEpoch.AddDate(0, 0, -d).Unix(),
		})
	}
	require.NoError(t, store.SaveHistory(spoolID, h))
}

func TestRecord_Validation(t *testing.T) {
	tr := newTestTracker(newMemStore())

	_, err := tr.Record("", "pla", 0.03, "", "")
	assert.Error(t, err)

	_, err = tr.Record("spool-1", "pla", 0, "", "")
	assert.Error(t, err)

	_, err = tr.Record("spool-1", "pla", -1, "", "")
	assert.Error(t, err)
}

func TestRecord_AppendsAndPersists(t *testing.T) {
	store := newMemStore()
	tr := newTestTracker(store)

	entry, err := tr.Record("spool-1", "PLA", 0.025, "", "manual")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, DefaultCurrency, entry.Currency)
	assert.Equal(t, trackerEpoch.Unix(), entry.RecordedAt)

	_, err = tr.Record("spool-1", "PLA", 0.027, "EUR", "vendor:local")
	require.NoError(t, err)

	h, err := tr.History("spool-1")
	require.NoError(t, err)
	require.NotNil(t, h)
	require.Len(t, h.Entries, 2)
	assert.Equal(t, 0.025, h.Entries[0].PricePerGram)
	assert.Equal(t, "EUR", h.Entries[1].Currency)
}

func TestHistory_UntrackedIsNil(t *testing.T) {
	tr := newTestTracker(newMemStore())
	h, err := tr.History("ghost")
	require.NoError(t, err)
	assert.Nil(t, h)
}

func TestTrendOver_Classification(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "up", "pla", map[int]float64{20: 0.020, 10: 0.024, 1: 0.028})
	seedHistory(t, store, "down", "pla", map[int]float64{20: 0.030, 1: 0.024})
	seedHistory(t, store, "flat", "pla", map[int]float64{20: 0.0250, 1: 0.0251})
	seedHistory(t, store, "lone", "pla", map[int]float64{5: 0.020})

	up, _ := store.LoadHistory("up")
	trend, pct := TrendOver(up, 30, trackerEpoch)
	assert.Equal(t, TrendIncreasing, trend)
	assert.Greater(t, pct, 0.0)

	down, _ := store.LoadHistory("down")
	trend, pct = TrendOver(down, 30, trackerEpoch)
	assert.Equal(t, TrendDecreasing, trend)
	assert.Less(t, pct, 0.0)

	flat, _ := store.LoadHistory("flat")
	trend, _ = TrendOver(flat, 30, trackerEpoch)
	assert.Equal(t, TrendStable, trend)

	lone, _ := store.LoadHistory("lone")
	trend, pct = TrendOver(lone, 30, trackerEpoch)
	assert.Equal(t, TrendStable, trend)
	assert.Zero(t, pct)
}

func TestTrendOver_IgnoresEntriesOutsideWindow(t *testing.T) {
	store := newMemStore()
	// The huge old jump sits outside the 30-day window; inside it the price
	// is flat.
	seedHistory(t, store, "s", "pla", map[int]float64{90: 0.010, 20: 0.030, 1: 0.030})

	h, _ := store.LoadHistory("s")
	trend, pct := TrendOver(h, 30, trackerEpoch)
	assert.Equal(t, TrendStable, trend)
	assert.Zero(t, pct)
}

func TestAlerts_ThresholdAndOrdering(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "jump", "pla", map[int]float64{20: 0.020, 1: 0.030})  // +50%
	seedHistory(t, store, "drop", "petg", map[int]float64{20: 0.040, 1: 0.036}) // -10%
	seedHistory(t, store, "calm", "abs", map[int]float64{20: 0.030, 1: 0.0305}) // under threshold
	seedHistory(t, store, "lone", "tpu", map[int]float64{5: 0.050})

	tr := newTestTracker(store)
	alerts, err := tr.Alerts(5, 30)
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	// Sorted by absolute change, biggest first.
	assert.Equal(t, "jump", alerts[0].SpoolID)
	assert.Equal(t, "increase", alerts[0].Direction)
	assert.InDelta(t, 50, alerts[0].ChangePct, 0.001)

	assert.Equal(t, "drop", alerts[1].SpoolID)
	assert.Equal(t, "decrease", alerts[1].Direction)
	assert.InDelta(t, -10, alerts[1].ChangePct, 0.001)
}

func TestAlerts_WindowExcludesOldMoves(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "old", "pla", map[int]float64{90: 0.020, 60: 0.040})

	tr := newTestTracker(store)
	alerts, err := tr.Alerts(5, 30)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestBestDeals_SortedAndLimited(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "cheap", "pla", map[int]float64{1: 0.018})
	seedHistory(t, store, "mid", "pla", map[int]float64{1: 0.024})
	seedHistory(t, store, "dear", "pla", map[int]float64{1: 0.035})

	tr := newTestTracker(store)
	deals, err := tr.BestDeals("", 2)
	require.NoError(t, err)
	require.Len(t, deals, 2)
	assert.Equal(t, "cheap", deals[0].SpoolID)
	assert.Equal(t, "mid", deals[1].SpoolID)
}

func TestBestDeals_MaterialFilterIsCaseInsensitive(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "a", "PLA", map[int]float64{1: 0.02})
	seedHistory(t, store, "b", "petg", map[int]float64{1: 0.03})

	tr := newTestTracker(store)
	deals, err := tr.BestDeals("pla", 0)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "a", deals[0].SpoolID)
}

func TestBestDeals_UsesLatestPriceAndTrend(t *testing.T) {
	store := newMemStore()
	seedHistory(t, store, "s", "pla", map[int]float64{20: 0.020, 1: 0.030})

	tr := newTestTracker(store)
	deals, err := tr.BestDeals("", 0)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, 0.030, deals[0].PricePerGram)
	assert.Equal(t, TrendIncreasing, deals[0].Trend)
}
