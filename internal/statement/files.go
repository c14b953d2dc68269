package statement

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const downloadPrefix = "Statement Download"

// ErrNoStatement indicates no statement export was found in the directory.
var ErrNoStatement = errors.New("no statement download found")

// LatestFile returns the most recently modified statement export in dir.
// The bank names every export "Statement Download ...".
func LatestFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading statement dir: %w", err)
	}

	var latest string
	var latestMod int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), downloadPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return "", fmt.Errorf("reading statement dir: %w", err)
		}
		if mod := info.ModTime().UnixNano(); latest == "" || mod > latestMod {
			latest = entry.Name()
			latestMod = mod
		}
	}
	if latest == "" {
		return "", ErrNoStatement
	}
	return filepath.Join(dir, latest), nil
}
