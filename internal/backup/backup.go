// Package backup creates and manages timestamped zip archives of the
// profile directory and application state.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// namePrefix and stampLayout shape backup archive filenames:
// filament_manager_backup_20260826_153000.zip
const (
	namePrefix  = "filament_manager_backup_"
	stampLayout = "20060102_150405"
)

// Info describes one backup archive on disk.
type Info struct {
	Path      string
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Service creates, lists, restores, and prunes backups in one directory.
type Service struct {
	dir        string
	maxBackups int // 0 disables pruning
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a backup Service writing archives to dir, keeping at
// most maxBackups (0 keeps everything).
func NewService(dir string, maxBackups int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{dir: dir, maxBackups: maxBackups, logger: logger, now: time.Now}
}

// Create writes a backup archive containing every file under profileDir
// (stored under "profiles/") plus each extra path — single files at the
// archive root, directories recursively under their basename. Missing
// extras are skipped, not errors. Returns the archive path and prunes old
// backups past the retention limit.
func (s *Service) Create(profileDir string, extras ...string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backup directory: %w", err)
	}

	path := filepath.Join(s.dir, namePrefix+s.now().Format(stampLayout)+".zip")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := addDir(zw, profileDir, "profiles"); err != nil {
		zw.Close()
		return "", fmt.Errorf("backup profiles: %w", err)
	}
	for _, extra := range extras {
		info, err := os.Stat(extra)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = addDir(zw, extra, filepath.Base(extra))
		} else {
			err = addFile(zw, extra, filepath.Base(extra))
		}
		if err != nil {
			zw.Close()
			return "", fmt.Errorf("backup %s: %w", extra, err)
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}

	s.logger.Info("created backup", "archive", path)
	if err := s.prune(); err != nil {
		s.logger.Warn("backup pruning failed", "error", err)
	}
	return path, nil
}

// List returns the backups in s.dir, newest first.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, ".zip") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		created := fi.ModTime()
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), ".zip")
		if t, err := time.ParseInLocation(stampLayout, stamp, time.Local); err == nil {
			created = t
		}
		out = append(out, Info{Path: filepath.Join(s.dir, name), Name: name, Size: fi.Size(), CreatedAt: created})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Restore extracts the archive's "profiles/" entries into profileDir,
// overwriting existing files. Other archive content (config, logs) is left
// alone — restoring state the app is currently running from would be
// surprising.
func (s *Service) Restore(archivePath, profileDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}

	restored := 0
	for _, zf := range r.File {
		if zf.FileInfo().IsDir() || !strings.HasPrefix(zf.Name, "profiles/") {
			continue
		}
		dest := filepath.Join(profileDir, filepath.Base(zf.Name))
		if err := extract(zf, dest); err != nil {
			return fmt.Errorf("restore %s: %w", zf.Name, err)
		}
		restored++
	}

	s.logger.Info("restored backup", "archive", archivePath, "files", restored)
	return nil
}

// Prune removes the oldest backups beyond the retention limit and returns
// the number removed.
func (s *Service) Prune() (int, error) {
	before, err := s.List()
	if err != nil {
		return 0, err
	}
	if err := s.prune(); err != nil {
		return 0, err
	}
	after, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(before) - len(after), nil
}

func (s *Service) prune() error {
	if s.maxBackups <= 0 {
		return nil
	}
	backups, err := s.List()
	if err != nil {
		return err
	}
	for _, old := range backups[min(s.maxBackups, len(backups)):] {
		if err := os.Remove(old.Path); err != nil {
			return err
		}
		s.logger.Info("pruned old backup", "archive", old.Name)
	}
	return nil
}

func addDir(zw *zip.Writer, dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		src := filepath.Join(dir, entry.Name())
		arc := prefix + "/" + entry.Name()
		if entry.IsDir() {
			if err := addDir(zw, src, arc); err != nil {
				return err
			}
			continue
		}
		if err := addFile(zw, src, arc); err != nil {
			return err
		}
	}
	return nil
}

func addFile(zw *zip.Writer, path, arcname string) error {
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

func extract(zf *zip.File, dest string) error {
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
