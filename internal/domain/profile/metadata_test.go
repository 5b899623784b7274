package profile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/spool/internal/ports"
)

// writeProfile drops content into dir under name and returns the full path.
func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIsProfileFile(t *testing.T) {
	assert.True(t, IsProfileFile("spool.xml"))
	assert.True(t, IsProfileFile("spool.fdm_material"))
	assert.True(t, IsProfileFile("spool.xml.fdm_material"))
	assert.True(t, IsProfileFile("SPOOL.XML"))
	assert.False(t, IsProfileFile("spool.txt"))
	assert.False(t, IsProfileFile("spool.xml.bak"))
}

func TestParseMetadata_WellFormed(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "a.xml.fdm_material", `<?xml version="1.0"?>
<Filament>
  <metadata>
    <name>
      <brand>Prusament</brand>
      <material>PLA</material>
      <color>Galaxy Black</color>
    </name>
    <diameter>2.85</diameter>
  </metadata>
  <properties><density>1.24</density></properties>
</Filament>`)

	meta := ParseMetadata(path, "a.xml.fdm_material")
	require.NotNil(t, meta)
	assert.Equal(t, "Prusament", meta.Brand)
	assert.Equal(t, "PLA", meta.Material)
	assert.Equal(t, "Galaxy Black", meta.Color)
	assert.Equal(t, 2.85, meta.Diameter)
	assert.Equal(t, "a.xml.fdm_material", meta.Filename)
	assert.Equal(t, path, meta.Path)
	assert.Greater(t, meta.LastModified, int64(0))
}

func TestParseMetadata_FieldsDirectlyUnderMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "b.xml", `<metadata>
  <brand>eSun</brand>
  <material>PETG</material>
  <color>clear</color>
  <diameter>1.75</diameter>
</metadata>`)

	meta := ParseMetadata(path, "b.xml")
	require.NotNil(t, meta)
	assert.Equal(t, "eSun", meta.Brand)
	assert.Equal(t, "PETG", meta.Material)
	assert.Equal(t, "clear", meta.Color)
}

func TestParseMetadata_MalformedFallsBackToRegex(t *testing.T) {
	dir := t.TempDir()
	// Unclosed <name> makes the section ill-formed XML; the per-field
	// patterns still pick each value out.
	path := writeProfile(t, dir, "c.xml", `<metadata>
  <name>
    <brand>Hatchbox</brand>
    <material>ABS</material>
    <color>red</color>
  <diameter>3.0</diameter>
</metadata>`)

	meta := ParseMetadata(path, "c.xml")
	require.NotNil(t, meta)
	assert.Equal(t, "Hatchbox", meta.Brand)
	assert.Equal(t, "ABS", meta.Material)
	assert.Equal(t, "red", meta.Color)
	assert.Equal(t, 3.0, meta.Diameter)
}

func TestParseMetadata_NoMetadataSection(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "d.xml", `<Filament><name><brand>X</brand></name></Filament>`)

	meta := ParseMetadata(path, "d.xml")
	require.NotNil(t, meta)
	assert.Empty(t, meta.Brand)
	assert.Empty(t, meta.Material)
	assert.Equal(t, ports.DefaultDiameter, meta.Diameter)
}

func TestParseMetadata_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "empty.xml", "")

	meta := ParseMetadata(path, "empty.xml")
	require.NotNil(t, meta)
	assert.Empty(t, meta.Brand)
	assert.Equal(t, ports.DefaultDiameter, meta.Diameter)
}

func TestParseMetadata_MissingFileIsNil(t *testing.T) {
	dir := t.TempDir()
	assert.Nil(t, ParseMetadata(filepath.Join(dir, "gone.xml"), "gone.xml"))
}

func TestParseMetadata_NonNumericDiameter(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "e.xml", `<metadata><diameter>wide</diameter></metadata>`)

	meta := ParseMetadata(path, "e.xml")
	require.NotNil(t, meta)
	assert.Equal(t, ports.DefaultDiameter, meta.Diameter)
}

func TestParseMetadata_StopsAtScanLimit(t *testing.T) {
	dir := t.TempDir()
	// Metadata buried past the 50-line window must not be seen.
	content := strings.Repeat("<!-- padding -->\n", 60) +
		"<metadata><name><brand>Late</brand></name></metadata>\n"
	path := writeProfile(t, dir, "late.xml", content)

	meta := ParseMetadata(path, "late.xml")
	require.NotNil(t, meta)
	assert.Empty(t, meta.Brand)
}

func TestParseMetadata_EarlyStopOnClosingTag(t *testing.T) {
	dir := t.TempDir()
	// The closing tag inside the window is enough even when the file goes on
	// for thousands of lines.
	content := "<metadata><name><brand>Early</brand></name></metadata>\n" +
		strings.Repeat("<settings_line>x</settings_line>\n", 5000)
	path := writeProfile(t, dir, "big.xml", content)

	meta := ParseMetadata(path, "big.xml")
	require.NotNil(t, meta)
	assert.Equal(t, "Early", meta.Brand)
}

func TestDisplayName(t *testing.T) {
	m := &ports.ProfileMeta{Brand: "Prusament", Material: "PLA", Color: "orange"}
	assert.Equal(t, "Prusament PLA orange", m.DisplayName())

	m = &ports.ProfileMeta{Material: "PLA"}
	assert.Equal(t, "PLA", m.DisplayName())

	m = &ports.ProfileMeta{Filename: "x.xml"}
	assert.Equal(t, "x.xml", m.DisplayName())
}
