// Package snapshot copies the persisted store as an opaque blob for
// backup and restore. It never inspects the file contents.
package snapshot

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Service exports and imports whole-store snapshots of the database
// file at dbPath.
type Service struct {
	dbPath string
}

func New(dbPath string) *Service {
	return &Service{dbPath: dbPath}
}

// Export copies the store into destDir (created if missing) under a
// timestamped name and returns the snapshot path.
func (s *Service) Export(destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("pfm-backup-%s.sqlite3", time.Now().Format("20060102-150405"))
	dest := filepath.Join(destDir, name)
	if err := copyFile(s.dbPath, dest); err != nil {
		return "", fmt.Errorf("export snapshot: %w", err)
	}

	slog.Info("Snapshot exported", "path", dest)
	return dest, nil
}

// Import replaces the store contents with the snapshot at srcPath. The
// ledger should be reopened afterwards.
func (s *Service) Import(srcPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("snapshot file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("snapshot file %s is a directory", srcPath)
	}

	if err := copyFile(srcPath, s.dbPath); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	slog.Info("Snapshot imported", "path", srcPath)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
