package costs

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/corey/spool/internal/ports"
)

// ErrNoData is returned when a report window contains no usage entries.
var ErrNoData = errors.New("no usage data for the specified period")

// Analyzer reads the usage ledger and produces cost reports.
type Analyzer struct {
	store  ports.PriceStore
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyzer creates an Analyzer over the given store.
func NewAnalyzer(store ports.PriceStore, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{store: store, logger: logger, now: time.Now}
}

// RecordUsage appends a ledger entry for filament consumed by one print
// job. A zero at timestamp means "now".
func (a *Analyzer) RecordUsage(projectID, spoolID, material string, gramsUsed, costPerGram float64, at time.Time) (*ports.UsageEntry, error) {
	if gramsUsed <= 0 {
		return nil, fmt.Errorf("grams used must be positive, got %v", gramsUsed)
	}
	if at.IsZero() {
		at = a.now()
	}

	entry := &ports.UsageEntry{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		SpoolID:     spoolID,
		Material:    material,
		GramsUsed:   gramsUsed,
		CostPerGram: costPerGram,
		TotalCost:   gramsUsed * costPerGram,
		Timestamp:   at.Unix(),
		RecordedAt:  a.now().Unix(),
	}
	if err := a.store.AppendUsage(entry); err != nil {
		return nil, err
	}
	a.logger.Info("recorded usage", "project", projectID, "spool", spoolID, "grams", gramsUsed)
	return entry, nil
}

// GenerateReport aggregates the ledger over the given period. Non-zero
// start/end bounds override the period window (end defaults to now). An
// empty window is an error, not a zeroed report.
func (a *Analyzer) GenerateReport(period Period, start, end time.Time) (*Report, error) {
	entries, err := a.store.LoadUsage()
	if err != nil {
		return nil, err
	}

	from, to := a.window(period, start, end)
	var selected []*ports.UsageEntry
	for _, e := range entries {
		if e.Timestamp >= from && e.Timestamp <= to {
			selected = append(selected, e)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNoData
	}

	var totalGrams, totalCost float64
	usageByMaterial := make(map[string]float64)
	costByMaterial := make(map[string]float64)
	projects := make(map[string]struct{})
	minTS, maxTS := selected[0].Timestamp, selected[0].Timestamp

	for _, e := range selected {
		totalGrams += e.GramsUsed
		totalCost += e.TotalCost
		usageByMaterial[e.Material] += e.GramsUsed
		costByMaterial[e.Material] += e.TotalCost
		projects[e.ProjectID] = struct{}{}
		if e.Timestamp < minTS {
			minTS = e.Timestamp
		}
		if e.Timestamp > maxTS {
			maxTS = e.Timestamp
		}
	}

	mostUsed, leastUsed := extremes(usageByMaterial)

	costPerGram := 0.0
	if totalGrams > 0 {
		costPerGram = totalCost / totalGrams
	}
	costPerProject := 0.0
	if len(projects) > 0 {
		costPerProject = totalCost / float64(len(projects))
	}

	return &Report{
		Period:            string(period),
		StartDate:         time.Unix(minTS, 0).Format(time.RFC3339),
		EndDate:           time.Unix(maxTS, 0).Format(time.RFC3339),
		TotalGramsUsed:    round2(totalGrams),
		TotalCost:         round2(totalCost),
		CostPerGram:       round4(costPerGram),
		UsageByMaterial:   roundMap(usageByMaterial),
		CostByMaterial:    roundMap(costByMaterial),
		ProjectsCompleted: len(projects),
		CostPerProject:    round2(costPerProject),
		MostUsedMaterial:  mostUsed,
		LeastUsedMaterial: leastUsed,
	}, nil
}

// window resolves the report's [from, to] bounds in unix seconds.
func (a *Analyzer) window(period Period, start, end time.Time) (int64, int64) {
	to := a.now()
	if !end.IsZero() {
		to = end
	}

	if !start.IsZero() {
		return start.Unix(), to.Unix()
	}
	if days := period.Days(); days > 0 {
		return to.AddDate(0, 0, -days).Unix(), to.Unix()
	}
	return math.MinInt64, to.Unix()
}

// extremes returns the most and least used material keys. Ties break on
// the lexically smaller key so results are deterministic.
func extremes(usage map[string]float64) (most, least string) {
	for k, v := range usage {
		if most == "" || v > usage[most] || (v == usage[most] && k < most) {
			most = k
		}
		if least == "" || v < usage[least] || (v == usage[least] && k < least) {
			least = k
		}
	}
	return most, least
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func roundMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = round2(v)
	}
	return out
}
