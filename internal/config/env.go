package config

import (
	"os"
	"strings"
)

const (
	EnvAPIBase    = "FLASHCARDS_API_BASE"
	EnvConfirm    = "FLASHCARDS_CONFIRM"
	EnvDevAPIAddr = "FLASHCARDS_DEVAPI_ADDR"
	EnvDevAPIDB   = "FLASHCARDS_DEVAPI_DB"
	EnvLogFile    = "FLASHCARDS_LOG_FILE"
)

// applyEnv lets the environment override whatever the file said.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvAPIBase); v != "" {
		cfg.API.BaseURL = strings.TrimRight(v, "/")
	}
	cfg.Confirm = envOr(EnvConfirm, cfg.Confirm)
	cfg.DevAPI.ListenAddr = envOr(EnvDevAPIAddr, cfg.DevAPI.ListenAddr)
	cfg.DevAPI.DBPath = envOr(EnvDevAPIDB, cfg.DevAPI.DBPath)
	cfg.LogFile = envOr(EnvLogFile, cfg.LogFile)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
