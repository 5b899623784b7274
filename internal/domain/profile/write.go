package profile

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/corey/spool/internal/ports"
)

// filamentNamespace is the namespace attribute written on the root element.
const filamentNamespace = "http://www.prusa3d.com/filament/1.0"

// WriteRecord serializes rec to path as indented XML. The usage section's
// last_used stamp is refreshed to now; every other field round-trips.
// Settings children are emitted in sorted tag order for stable output.
func WriteRecord(path string, rec *ports.ProfileRecord, now time.Time) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Filament"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: filamentNamespace}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	if err := encodeSection(enc, "name", []field{
		{"brand", rec.Brand},
		{"material", rec.Material},
		{"color", rec.Color},
	}); err != nil {
		return err
	}
	if err := encodeLeaf(enc, "description", rec.Description); err != nil {
		return err
	}
	if err := encodeSection(enc, "properties", []field{
		{"diameter", formatFloat(rec.Diameter)},
		{"density", formatFloat(rec.Density)},
	}); err != nil {
		return err
	}
	if err := encodeSection(enc, "usage", []field{
		{"initial_quantity", formatFloat(rec.InitialQuantity)},
		{"used_quantity", formatFloat(rec.UsedQuantity)},
		{"cost_per_kg", formatFloat(rec.CostPerKg)},
		{"last_used", now.Format(lastUsedLayout)},
	}); err != nil {
		return err
	}
	if len(rec.Settings) > 0 {
		keys := make([]string, 0, len(rec.Settings))
		for k := range rec.Settings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, field{k, rec.Settings[k]})
		}
		if err := encodeSection(enc, "settings", fields); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	buf.WriteString("\n")

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

type field struct {
	tag   string
	value string
}

func encodeSection(enc *xml.Encoder, name string, fields []field) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range fields {
		if err := encodeLeaf(enc, f.tag, f.value); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeLeaf(enc *xml.Encoder, name, value string) error {
	return enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
