// Package ports defines the interfaces (contracts) that adapters must implement
// and the record types shared across the domain. Domain logic depends only on
// these, never on concrete implementations.
package ports

import "time"

// DefaultDiameter is the filament diameter assumed when a profile does not
// declare one (1.75 mm is the overwhelmingly common size).
const DefaultDiameter = 1.75

// ProfileMeta is the lightweight per-file record kept in memory for every
// discovered profile. Filename is the primary key across metadata, the record
// cache, and the search index.
type ProfileMeta struct {
	Filename     string
	Path         string
	Brand        string
	Material     string
	Color        string
	Diameter     float64
	LastModified int64 // unix seconds, file mtime
}

// DisplayName returns "Brand Material Color" with empty parts omitted,
// or the filename when no name fields are set.
func (m *ProfileMeta) DisplayName() string {
	name := joinNonEmpty(m.Brand, m.Material, m.Color)
	if name == "" {
		return m.Filename
	}
	return name
}

// ProfileRecord is the fully parsed profile, a lazy superset of ProfileMeta.
// Settings is the one deliberately open-ended map: slicer settings are
// inherently schema-less.
type ProfileRecord struct {
	ProfileMeta

	Description     string
	Density         float64
	InitialQuantity float64 // grams on the spool when new
	UsedQuantity    float64 // grams consumed so far
	CostPerKg       float64
	LastUsed        time.Time
	Settings        map[string]string
}

// RemainingGrams returns the unspent quantity, floored at zero (a spool that
// over-reports usage reads as empty, not negative).
func (r *ProfileRecord) RemainingGrams() float64 {
	remaining := r.InitialQuantity - r.UsedQuantity
	if remaining < 0 {
		return 0
	}
	return remaining
}

// UsedCost returns the cost of the material consumed so far.
func (r *ProfileRecord) UsedCost() float64 {
	return r.UsedQuantity * r.CostPerKg / 1000
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
