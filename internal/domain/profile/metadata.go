// Package profile parses and persists filament profile files (.xml and
// .fdm_material): a tolerant metadata-only parser for fast startup scans, a
// full-record parser for on-demand detail, the XML writer, and filename
// derivation with collision resolution.
package profile

import (
	"bufio"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/corey/spool/internal/ports"
)

// CanonicalExt is the extension given to every profile the app writes.
const CanonicalExt = ".xml.fdm_material"

// metadataScanLines bounds the startup scan. Full records may be large, but
// the metadata section sits at the top of the file.
const metadataScanLines = 50

// Per-field fallback patterns: case-insensitive, dot matches newline. Each
// field is extracted independently so one corrupt field cannot block the
// others.
var (
	brandRe    = regexp.MustCompile(`(?is)<brand>(.*?)</brand>`)
	materialRe = regexp.MustCompile(`(?is)<material>(.*?)</material>`)
	colorRe    = regexp.MustCompile(`(?is)<color>(.*?)</color>`)
	diameterRe = regexp.MustCompile(`(?is)<diameter>(.*?)</diameter>`)
)

// IsProfileFile reports whether filename looks like a profile file.
func IsProfileFile(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".xml") || strings.HasSuffix(lower, ".fdm_material")
}

// ParseMetadata extracts the lightweight metadata for one profile file.
// Malformed, truncated, or unreadable content degrades to default values;
// only a failed stat (file vanished, directory permission lost) returns nil,
// which scanners treat as "corrupted — skip". An empty file is not an error.
func ParseMetadata(path, filename string) *ports.ProfileMeta {
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	meta := &ports.ProfileMeta{
		Filename:     filename,
		Path:         path,
		Diameter:     ports.DefaultDiameter,
		LastModified: info.ModTime().Unix(),
	}

	content, err := readHead(path, metadataScanLines)
	if err != nil {
		// Read errors are shielded: defaults, not a corruption mark.
		return meta
	}
	if strings.TrimSpace(content) == "" {
		return meta
	}

	start := strings.Index(content, "<metadata>")
	end := strings.Index(content, "</metadata>")
	if start == -1 || end == -1 {
		return meta
	}
	section := content[start : end+len("</metadata>")]

	if parseMetadataSection(section, meta) {
		return meta
	}

	// Structured parse failed — fall back to per-field regex extraction over
	// the full buffered head.
	applyRegexFallback(content, meta)
	return meta
}

// readHead reads at most maxLines lines from path, stopping early once the
// metadata closing tag is seen.
func readHead(path string, maxLines int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 256*1024), 256*1024)
	for i := 0; i < maxLines && scanner.Scan(); i++ {
		line := scanner.Text()
		sb.WriteString(line)
		sb.WriteString("\n")
		if strings.Contains(line, "</metadata>") {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// parseMetadataSection parses just the <metadata> substring as XML and
// populates meta from its children. Fields may sit directly under metadata
// or one level down inside a <name> (or nested <metadata>) block.
// Returns false when the substring is not well-formed.
func parseMetadataSection(section string, meta *ports.ProfileMeta) bool {
	root, err := parseTree(strings.NewReader(section))
	if err != nil {
		return false
	}
	for _, child := range root.children {
		switch child.name {
		case "name", "metadata":
			for _, field := range child.children {
				applyMetaField(meta, field.name, field.text())
			}
		default:
			applyMetaField(meta, child.name, child.text())
		}
	}
	return true
}

func applyMetaField(meta *ports.ProfileMeta, tag, value string) {
	switch tag {
	case "brand":
		meta.Brand = value
	case "material":
		meta.Material = value
	case "color":
		meta.Color = value
	case "diameter":
		// Non-numeric diameter falls back to the default.
		if d, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			meta.Diameter = d
		} else {
			meta.Diameter = ports.DefaultDiameter
		}
	}
}

func applyRegexFallback(content string, meta *ports.ProfileMeta) {
	if m := brandRe.FindStringSubmatch(content); m != nil {
		meta.Brand = strings.TrimSpace(m[1])
	}
	if m := materialRe.FindStringSubmatch(content); m != nil {
		meta.Material = strings.TrimSpace(m[1])
	}
	if m := colorRe.FindStringSubmatch(content); m != nil {
		meta.Color = strings.TrimSpace(m[1])
	}
	if m := diameterRe.FindStringSubmatch(content); m != nil {
		if d, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64); err == nil {
			meta.Diameter = d
		}
	}
}
