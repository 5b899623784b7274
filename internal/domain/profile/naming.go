package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DeriveFilename resolves the on-disk filename a record should be saved
// under within dir.
//
// With no originalFilename, the base name is brand_material_color —
// lowercased, whitespace collapsed to underscores, anything outside
// [A-Za-z0-9_.-] replaced with an underscore — plus the canonical extension,
// with an incrementing numeric suffix appended until the name is unique.
//
// An originalFilename that already carries the canonical extension is reused
// verbatim (overwrite semantics). One with a legacy extension is renamed:
// old extension stripped, canonical extension and the same uniqueness loop
// applied, so editing a legacy-named file produces a new file.
//
// Uniqueness is checked against the directory at call time; the narrow
// TOCTOU window is acceptable for a single-user desktop tool.
func DeriveFilename(dir, brand, material, color, originalFilename string) string {
	if originalFilename != "" {
		if strings.HasSuffix(originalFilename, CanonicalExt) {
			return originalFilename
		}
		base := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))
		return uniqueName(dir, base)
	}

	base := sanitizeBase(fmt.Sprintf("%s_%s_%s", normalizePart(brand), normalizePart(material), normalizePart(color)))
	if base == "" {
		base = "profile"
	}
	return uniqueName(dir, base)
}

// uniqueName appends the canonical extension to base, then a _1, _2, ...
// suffix until no file with that name exists in dir.
func uniqueName(dir, base string) string {
	name := base + CanonicalExt
	for counter := 1; exists(filepath.Join(dir, name)); counter++ {
		name = fmt.Sprintf("%s_%d%s", base, counter, CanonicalExt)
	}
	return name
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func normalizePart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

func sanitizeBase(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
