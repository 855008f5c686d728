package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// MaxBackupFiles caps how many local backups backupLocal retains for a
// given database path before pruning the oldest.
const MaxBackupFiles = 30

const backupFileExtension = ".bak"

// backupLocal copies the existing file at path to a timestamped
// sibling file before it is overwritten, then prunes old backups down
// to MaxBackupFiles. If path does not exist yet, there is nothing to
// back up and backupLocal is a no-op.
func backupLocal(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	backupPath := backupFilename(path, time.Now())
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(backupPath, data, 0o600); err != nil {
		return err
	}

	return pruneOldBackups(path)
}

// backupFilename derives a backup sibling path for path using the
// given timestamp: "<path>.<YYYYMMDDHHMMSS>.bak".
func backupFilename(path string, t time.Time) string {
	return fmt.Sprintf("%s.%s%s", path, t.Format("20060102150405"), backupFileExtension)
}

func pruneOldBackups(path string) error {
	dir := filepath.Dir(path)
	prefix := filepath.Base(path) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	type backupEntry struct {
		path    string
		modTime time.Time
	}
	var backups []backupEntry
	for _, e := range entries {
		name := e.Name()
		if !hasBackupShape(name, prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backupEntry{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	if len(backups) <= MaxBackupFiles {
		return nil
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].modTime.Before(backups[j].modTime) })
	for _, b := range backups[:len(backups)-MaxBackupFiles] {
		if err := os.Remove(b.path); err != nil {
			return err
		}
	}
	return nil
}

func hasBackupShape(name, prefix string) bool {
	if len(name) <= len(prefix)+len(backupFileExtension) {
		return false
	}
	return name[:len(prefix)] == prefix && name[len(name)-len(backupFileExtension):] == backupFileExtension
}
