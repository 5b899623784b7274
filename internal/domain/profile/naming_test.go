package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestDeriveFilename_Basic(t *testing.T) {
	dir := t.TempDir()
	name := DeriveFilename(dir, "Prusament", "PLA", "Galaxy Black", "")
	assert.Equal(t, "prusament_pla_galaxy_black.xml.fdm_material", name)
}

func TestDeriveFilename_SanitizesSpecialCharacters(t *testing.T) {
	dir := t.TempDir()
	name := DeriveFilename(dir, "e/Sun", "PLA+", "rouge foncé", "")
	// Trailing underscore from the accent is trimmed.
	assert.Equal(t, "e_sun_pla__rouge_fonc.xml.fdm_material", name)
}

func TestDeriveFilename_AllEmptyFallsBackToProfile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "profile.xml.fdm_material", DeriveFilename(dir, "", "", "", ""))
}

func TestDeriveFilename_CollisionSuffix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "acme_pla_red.xml.fdm_material")
	touch(t, dir, "acme_pla_red_1.xml.fdm_material")

	name := DeriveFilename(dir, "Acme", "PLA", "red", "")
	assert.Equal(t, "acme_pla_red_2.xml.fdm_material", name)
}

func TestDeriveFilename_CanonicalOriginalReusedVerbatim(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "keep_me.xml.fdm_material")

	// Overwrite semantics: the existing file does not trigger a suffix.
	name := DeriveFilename(dir, "Other", "Brand", "Fields", "keep_me.xml.fdm_material")
	assert.Equal(t, "keep_me.xml.fdm_material", name)
}

func TestDeriveFilename_LegacyExtensionRenamed(t *testing.T) {
	dir := t.TempDir()
	name := DeriveFilename(dir, "", "", "", "old_profile.xml")
	assert.Equal(t, "old_profile.xml.fdm_material", name)
}

func TestDeriveFilename_LegacyExtensionCollision(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "old_profile.xml.fdm_material")

	name := DeriveFilename(dir, "", "", "", "old_profile.xml")
	assert.Equal(t, "old_profile_1.xml.fdm_material", name)
}
