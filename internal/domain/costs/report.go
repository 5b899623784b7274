// Package costs aggregates the filament usage ledger into per-period cost
// reports with JSON and CSV export.
package costs

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Period selects the trailing window a report covers.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
	PeriodAllTime Period = "all_time"
)

// Days returns the length of the trailing window, or 0 for all time.
func (p Period) Days() int {
	switch p {
	case PeriodDaily:
		return 1
	case PeriodWeekly:
		return 7
	case PeriodMonthly:
		return 30
	case PeriodYearly:
		return 365
	default:
		return 0
	}
}

// ParsePeriod maps a user-supplied string to a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodDaily:
		return PeriodDaily, nil
	case PeriodWeekly:
		return PeriodWeekly, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodYearly:
		return PeriodYearly, nil
	case PeriodAllTime, "":
		return PeriodAllTime, nil
	}
	return "", fmt.Errorf("unknown period %q (want daily, weekly, monthly, yearly, or all_time)", s)
}

// Report is the aggregate cost analysis for one period.
type Report struct {
	Period            string             `json:"period"`
	StartDate         string             `json:"start_date"`
	EndDate           string             `json:"end_date"`
	TotalGramsUsed    float64            `json:"total_filament_used_g"`
	TotalCost         float64            `json:"total_cost"`
	CostPerGram       float64            `json:"cost_per_gram"`
	UsageByMaterial   map[string]float64 `json:"filament_usage_by_type"`
	CostByMaterial    map[string]float64 `json:"cost_by_type"`
	ProjectsCompleted int                `json:"projects_completed"`
	CostPerProject    float64            `json:"cost_per_project"`
	MostUsedMaterial  string             `json:"most_used_filament"`
	LeastUsedMaterial string             `json:"least_used_filament"`
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

type column struct {
	header string
	value  string
}

// CSV renders the report as a header row plus a single value row. Map
// fields are flattened to one column per key ("cost_by_type_pla"), keys
// sorted for stable output.
func (r *Report) CSV() string {
	cols := []column{
		{"period", r.Period},
		{"start_date", r.StartDate},
		{"end_date", r.EndDate},
		{"total_filament_used_g", formatAmount(r.TotalGramsUsed)},
		{"total_cost", formatAmount(r.TotalCost)},
		{"cost_per_gram", formatAmount(r.CostPerGram)},
	}
	cols = append(cols, flattenMap("filament_usage_by_type", r.UsageByMaterial)...)
	cols = append(cols, flattenMap("cost_by_type", r.CostByMaterial)...)
	cols = append(cols,
		column{"projects_completed", fmt.Sprintf("%d", r.ProjectsCompleted)},
		column{"cost_per_project", formatAmount(r.CostPerProject)},
		column{"most_used_filament", r.MostUsedMaterial},
		column{"least_used_filament", r.LeastUsedMaterial},
	)

	headers := make([]string, len(cols))
	values := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
		values[i] = c.value
	}
	return strings.Join(headers, ",") + "\n" + strings.Join(values, ",") + "\n"
}

func flattenMap(prefix string, m map[string]float64) []column {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]column, 0, len(keys))
	for _, k := range keys {
		out = append(out, column{prefix + "_" + sanitizeHeader(k), formatAmount(m[k])})
	}
	return out
}

// sanitizeHeader lowercases a material name and strips CSV-hostile runes so
// it can serve as a column suffix.
func sanitizeHeader(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ",", "_")
	return s
}

func formatAmount(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}
