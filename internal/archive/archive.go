package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"codeberg.org/snonux/vocabtts/internal"
)

// DirName is the directory inside the output directory holding earlier runs
const DirName = "archive"

// ArchiveOutputs moves the audio files and the vocabulary table of an earlier
// run into archive/run-<timestamp> inside outputDir. It returns the archive
// path, or "" when there was nothing to move.
func ArchiveOutputs(outputDir, tableFile string) (string, error) {
	// Check if output directory exists
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		return "", nil
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", fmt.Errorf("failed to read output directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(filepath.Ext(name), internal.AudioExtension) || (tableFile != "" && name == tableFile) {
			files = append(files, name)
		}
	}

	if len(files) == 0 {
		return "", nil
	}

	// Generate timestamp
	archiveDir := filepath.Join(outputDir, DirName)
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, "run-"+timestamp)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, "run-"+timestamp)
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, name := range files {
		if err := os.Rename(filepath.Join(outputDir, name), filepath.Join(archivePath, name)); err != nil {
			return archivePath, fmt.Errorf("failed to archive %s: %w", name, err)
		}
	}

	log.Info("Archived earlier outputs", "files", len(files), "dir", archivePath)
	return archivePath, nil
}
