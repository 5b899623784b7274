package profile

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/corey/spool/internal/ports"
)

// lastUsedLayout is the timestamp format of the usage section's last_used
// field.
const lastUsedLayout = "2006-01-02 15:04"

// ParseRecordFile reads and parses the complete profile document at path.
// Unlike ParseMetadata this requires a well-formed document; callers treat
// an error as "unavailable", not fatal.
func ParseRecordFile(path, filename string) (*ports.ProfileRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	root, err := parseTree(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", filename, err)
	}

	rec := parseRecord(root)
	rec.Filename = filename
	rec.Path = path
	return rec, nil
}

// parseRecord populates a ProfileRecord from a parsed document root.
// Every node is optional: absent substructure is skipped, never an error.
// Name fields are accepted both under <metadata><name> (slicer exports) and
// directly under the root <name> (the layout this package writes).
func parseRecord(root *element) *ports.ProfileRecord {
	rec := &ports.ProfileRecord{
		ProfileMeta: ports.ProfileMeta{Diameter: ports.DefaultDiameter},
		Settings:    make(map[string]string),
	}

	if md := root.child("metadata"); md != nil {
		if name := md.child("name"); name != nil {
			applyNameFields(rec, name)
		}
		if d := md.child("diameter"); d != nil {
			rec.Diameter = parseFloatDefault(d.text(), ports.DefaultDiameter)
		}
	}
	if name := root.child("name"); name != nil {
		applyNameFields(rec, name)
	}
	if desc := root.child("description"); desc != nil {
		rec.Description = desc.text()
	}
	if props := root.child("properties"); props != nil {
		if d := props.child("diameter"); d != nil {
			rec.Diameter = parseFloatDefault(d.text(), ports.DefaultDiameter)
		}
		if d := props.child("density"); d != nil {
			rec.Density = parseFloatDefault(d.text(), 0)
		}
	}
	if usage := root.child("usage"); usage != nil {
		if n := usage.child("initial_quantity"); n != nil {
			rec.InitialQuantity = parseFloatDefault(n.text(), 0)
		}
		if n := usage.child("used_quantity"); n != nil {
			rec.UsedQuantity = parseFloatDefault(n.text(), 0)
		}
		if n := usage.child("cost_per_kg"); n != nil {
			rec.CostPerKg = parseFloatDefault(n.text(), 0)
		}
		if n := usage.child("last_used"); n != nil {
			if t, err := time.ParseInLocation(lastUsedLayout, n.text(), time.Local); err == nil {
				rec.LastUsed = t
			}
		}
	}
	if settings := root.child("settings"); settings != nil {
		for _, s := range settings.children {
			if s.name == "" {
				continue
			}
			if v := s.text(); v != "" {
				rec.Settings[s.name] = v
			}
		}
	}

	return rec
}

func applyNameFields(rec *ports.ProfileRecord, name *element) {
	if b := name.child("brand"); b != nil {
		rec.Brand = b.text()
	}
	if m := name.child("material"); m != nil {
		rec.Material = m.text()
	}
	if c := name.child("color"); c != nil {
		rec.Color = c.text()
	}
}

func parseFloatDefault(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}
