// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/flashcards/pkg/utils"
)

const (
	DefaultAPIBase       = "http://127.0.0.1:8000/api"
	DefaultDevAPIAddr    = "127.0.0.1:8000"
	DefaultDevAPIDB      = "flashcards-dev.db"
	DefaultTagIDEncoding = "both"

	ConfirmAsk = "ask"
	ConfirmYes = "yes"
)

type Config struct {
	API struct {
		BaseURL       string        `yaml:"base_url"`
		TagIDEncoding string        `yaml:"tag_id_encoding"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"api"`
	Confirm       string `yaml:"confirm"`
	LogFile       string `yaml:"log_file"`
	Verbose       bool   `yaml:"verbose"`
	FlashcardSize struct {
		Width  float64 `yaml:"width"`
		Height float64 `yaml:"height"`
	} `yaml:"flashcard_size"`
	Import struct {
		SkipMarkerCheck    bool   `yaml:"skip_marker_check"`
		SkipDimensionCheck bool   `yaml:"skip_dimension_check"`
		OutputDir          string `yaml:"output_dir"`
	} `yaml:"import"`
	DevAPI struct {
		ListenAddr string `yaml:"listen_addr"`
		DBPath     string `yaml:"db_path"`
	} `yaml:"devapi"`
}

// Load reads the YAML file at path. A missing file is not an error; the
// defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultAPIBase
	}
	if cfg.API.TagIDEncoding == "" {
		cfg.API.TagIDEncoding = DefaultTagIDEncoding
	}
	if cfg.Confirm == "" {
		cfg.Confirm = ConfirmAsk
	}
	if cfg.FlashcardSize.Width == 0 {
		cfg.FlashcardSize.Width = utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH
	}
	if cfg.FlashcardSize.Height == 0 {
		cfg.FlashcardSize.Height = utils.GOODNOTES_STANDARD_FLASHCARD_HEIGHT
	}
	if cfg.DevAPI.ListenAddr == "" {
		cfg.DevAPI.ListenAddr = DefaultDevAPIAddr
	}
	if cfg.DevAPI.DBPath == "" {
		cfg.DevAPI.DBPath = DefaultDevAPIDB
	}
}

func (c *Config) Validate() error {
	switch c.API.TagIDEncoding {
	case "both", "repeated", "comma":
	default:
		return fmt.Errorf("api.tag_id_encoding must be one of both, repeated, comma; got %q", c.API.TagIDEncoding)
	}
	switch c.Confirm {
	case ConfirmAsk, ConfirmYes:
	default:
		return fmt.Errorf("confirm must be %q or %q; got %q", ConfirmAsk, ConfirmYes, c.Confirm)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}
