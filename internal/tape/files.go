package tape

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Ext is the tape file extension.
const Ext = ".tape"

// File is a tape file with metadata
type File struct {
	Name     string    // Display name (without extension)
	Path     string    // Full path to the file
	Size     int64     // File size in bytes
	Modified time.Time // Last modification time
}

// Dir returns the XDG data directory for tape files, creating it if needed.
func Dir() (string, error) {
	marker, err := xdg.DataFile("tuikit/tapes/.keep")
	if err != nil {
		return "", fmt.Errorf("failed to get tape directory: %w", err)
	}
	return filepath.Dir(marker), nil
}

// List returns the tapes in dir, newest first.
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tape directory: %w", err)
	}

	var files []File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, Ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:     strings.TrimSuffix(name, Ext),
			Path:     filepath.Join(dir, name),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})
	return files, nil
}

// Resolve returns name itself when it is an existing file, otherwise the
// tape of that name in dir.
func Resolve(dir, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	path := filepath.Join(dir, strings.TrimSuffix(name, Ext)+Ext)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("tape %q not found", name)
	}
	return path, nil
}

// Load parses the tape at path.
func Load(path string) ([]Command, error) {
	// #nosec G304 - tapes are user-provided scripts
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tape: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}
