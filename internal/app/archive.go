package app

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNothingToExport is returned when the profile directory is empty or
// missing at export time. An empty archive is never produced silently.
var ErrNothingToExport = errors.New("no filament profiles to export")

// ExportZip packages every .xml profile in the directory into a zip archive
// at targetPath, flattened to basenames.
func (s *Store) ExportZip(targetPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil || len(entries) == 0 {
		s.logger.Warn("profile directory empty or missing, nothing to export", "dir", s.dir)
		return ErrNothingToExport
	}

	f, err := os.Create(targetPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".xml") {
			continue
		}
		if err := addFileToZip(zw, filepath.Join(s.dir, name), name); err != nil {
			zw.Close()
			return fmt.Errorf("archive %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	s.logger.Info("exported profiles", "archive", targetPath)
	return nil
}

// ImportZip extracts a profile archive into the profile directory,
// overwriting on name collision. Entries are flattened to basenames, which
// doubles as a guard against path traversal. Callers rescan afterwards to
// pick up the new files.
func (s *Store) ImportZip(sourcePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	r, err := zip.OpenReader(sourcePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	for _, zf := range r.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		name := filepath.Base(zf.Name)
		if err := extractZipFile(zf, filepath.Join(s.dir, name)); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
	}

	s.logger.Info("imported profiles", "archive", sourcePath)
	return nil
}

func addFileToZip(zw *zip.Writer, path, arcname string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := zw.Create(arcname)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}

func extractZipFile(zf *zip.File, dest string) error {
	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
