package version

var (
	// These values are injected during build - DO NOT MODIFY
	Version   = "VERSION_PLACEHOLDER"
	CommitSHA = "COMMIT_PLACEHOLDER"
)

func GetVersionInfo() string {
	return "flashcards " + Version
}

func GetDetailedVersionInfo() string {
	return "flashcards\n" +
		"Version:  " + Version + "\n" +
		"Commit:   " + CommitSHA + "\n"
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "flashcards/" + Version
}
