// Package config handles loading and managing application configuration
// from YAML files, .env files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jjscout/hellscore-merch-qr/label"
)

// envPrefix is prepended to every environment override.
const envPrefix = "MERCHQR_"

// envFiles are loaded in order. godotenv never overwrites a variable that is
// already set, so earlier files win over later ones.
var envFiles = []string{".env.local", ".env"}

// FontConfig selects the caption font.
type FontConfig struct {
	Path string  `yaml:"path"`
	Size float64 `yaml:"size"`
}

// CanvasConfig is the fixed size of a single label.
type CanvasConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TopMargin  int `yaml:"top_margin"`
	SideMargin int `yaml:"side_margin"`
	Gap        int `yaml:"gap"`
}

// QRConfig controls the QR matrix rendering.
type QRConfig struct {
	Level      string `yaml:"level"`
	BoxSize    int    `yaml:"box_size"`
	Border     bool   `yaml:"border"`
	Version    int    `yaml:"version"`
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// LinksConfig holds the fixed links embedded in every payload.
type LinksConfig struct {
	Promo     string `yaml:"promo"`
	Reference string `yaml:"reference"`
}

// FieldConfig is one caption column: field name (type, design, gender,
// size), right-aligned width and whether a blank value drops the column.
type FieldConfig struct {
	Field     string `yaml:"field"`
	Width     int    `yaml:"width"`
	OmitEmpty bool   `yaml:"omit_empty"`
}

// LabelConfig overrides the caption layout; empty Fields keeps the default.
type LabelConfig struct {
	Fields    []FieldConfig `yaml:"fields"`
	Separator string        `yaml:"separator"`
}

// GridConfig is the default sheet shape.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Config holds all application configuration values.
type Config struct {
	OutputDir string       `yaml:"output_dir"`
	Catalog   string       `yaml:"catalog"`
	Font      FontConfig   `yaml:"font"`
	Canvas    CanvasConfig `yaml:"canvas"`
	QR        QRConfig     `yaml:"qr"`
	Links     LinksConfig  `yaml:"links"`
	Label     LabelConfig  `yaml:"label"`
	Grid      GridConfig   `yaml:"grid"`
	Port      int          `yaml:"port"`
	LogLevel  string       `yaml:"log_level"`
	Verbose   bool         `yaml:"verbose"`
}

// defaults returns a Config populated with sensible default values.
func defaults() *Config {
	return &Config{
		OutputDir: "qrs",
		Font:      FontConfig{Path: "arial.ttf", Size: 50},
		Canvas:    CanvasConfig{Width: 600, Height: 680, TopMargin: 10, SideMargin: 10, Gap: 10},
		QR: QRConfig{
			Level:      "low",
			BoxSize:    10,
			Border:     true,
			Foreground: "#000000",
			Background: "#ffffff",
		},
		Links: LinksConfig{
			Promo:     label.DefaultLinks.Promo,
			Reference: label.DefaultLinks.Reference,
		},
		Grid:     GridConfig{Rows: 2, Cols: 3},
		Port:     8556,
		LogLevel: "info",
		Verbose:  true,
	}
}

// Load reads configuration from the YAML file at path, falling back to
// defaults if the file does not exist. Variables from .env.local and .env
// are then loaded into the environment (.env.local wins), and MERCHQR_*
// variables override any file or default values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — proceed with defaults.
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEnvFiles loads each of envFiles into the environment. Missing files
// are skipped; unreadable or malformed ones are an error.
func loadEnvFiles() error {
	for _, name := range envFiles {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", name, err)
		}
	}
	return nil
}

// applyEnvOverrides applies MERCHQR_* environment variable overrides to cfg.
func applyEnvOverrides(cfg *Config) {
	if v := getenv("OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := getenv("CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := getenv("FONT"); v != "" {
		cfg.Font.Path = v
	}
	if v := getenv("FONT_SIZE"); v != "" {
		if s, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Font.Size = s
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getenv("QR_LEVEL"); v != "" {
		cfg.QR.Level = v
	}
	if v := getenv("QR_BOX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.QR.BoxSize = n
		}
	}
	if v := getenv("VERBOSE"); v != "" {
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			cfg.Verbose = true
		case "false", "0", "no":
			cfg.Verbose = false
		}
	}
}

func getenv(key string) string {
	return os.Getenv(envPrefix + key)
}

// Validate rejects values no run could succeed with.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font size must be positive, got %v", c.Font.Size)
	}
	if c.Grid.Rows <= 0 || c.Grid.Cols <= 0 {
		return fmt.Errorf("invalid grid %dx%d", c.Grid.Rows, c.Grid.Cols)
	}
	for _, f := range c.Label.Fields {
		switch f.Field {
		case "type", "design", "gender", "size":
		default:
			return fmt.Errorf("unknown label field %q", f.Field)
		}
		if f.Width < 0 {
			return fmt.Errorf("label field %s: negative width", f.Field)
		}
	}
	return nil
}
