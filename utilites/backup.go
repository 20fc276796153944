package utilites

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupTimeLayout stamps backup file names.
const BackupTimeLayout = "20060102_150405"

// BackupPath returns the sibling path a backup of path taken at t is
// written to: <stem>_backup_<timestamp><ext>.
func BackupPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s_backup_%s%s", stem, t.Format(BackupTimeLayout), ext))
}

// Backup copies path to its timestamped backup path, keeping file mode and
// modification time, and returns the backup's path.
func Backup(path string, t time.Time) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("backup %s: not a regular file", path)
	}

	dst := BackupPath(path, t)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return "", err
	}
	return dst, nil
}
