package utils

import "os"

// Goodnotes exports flashcard pages at this size in points.
const (
	GOODNOTES_STANDARD_FLASHCARD_WIDTH  = 455.04
	GOODNOTES_STANDARD_FLASHCARD_HEIGHT = 587.52
)

func GetDefaultOutputDir() string {
	tmpDir, err := os.MkdirTemp("", "flashcards-import-*")
	if err != nil {
		// If we can't create a temp directory, fall back to local directory
		return "flashcards-import"
	}
	return tmpDir
}
