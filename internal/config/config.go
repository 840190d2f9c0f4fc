package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds CLI configuration.
type Config struct {
	Detect DetectConfig `mapstructure:"detect"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

// DetectConfig holds detection settings.
type DetectConfig struct {
	DPI float64 `mapstructure:"dpi"`

	// Gap heights in pixel rows at DPI. 0 selects the detector default
	// scaled to DPI (50 and 15 rows at 150 DPI).
	SystemGap int `mapstructure:"system_gap"`
	PartGap   int `mapstructure:"part_gap"`

	Workers     int    `mapstructure:"workers"`
	Synchronous bool   `mapstructure:"synchronous"`
	OCR         bool   `mapstructure:"ocr"`
	OCRLanguage string `mapstructure:"ocr_language"`
}

// OutputConfig holds presentation settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Output formats
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// Load reads configuration from file and env. Env var overrides use prefix
// SCORECUTTER_, e.g. SCORECUTTER_DETECT_WORKERS=2. path selects the config
// file; when empty SCORECUTTER_CONFIG is used, then
// ~/.config/scorecutter/config.toml if present.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("detect.dpi", 150.0)
	v.SetDefault("detect.system_gap", 0)
	v.SetDefault("detect.part_gap", 0)
	v.SetDefault("detect.workers", 0)
	v.SetDefault("detect.synchronous", false)
	v.SetDefault("detect.ocr", false)
	v.SetDefault("detect.ocr_language", "eng")
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("log.level", "warn")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("SCORECUTTER_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "scorecutter"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SCORECUTTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// the default location is optional, a named file is not
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks value ranges
func (c Config) Validate() error {
	if c.Detect.DPI <= 0 {
		return fmt.Errorf("detect.dpi must be positive, got %v", c.Detect.DPI)
	}
	if c.Detect.SystemGap < 0 || c.Detect.PartGap < 0 {
		return fmt.Errorf("gap heights must not be negative")
	}
	switch c.Output.Format {
	case FormatJSON, FormatHTML:
	default:
		return fmt.Errorf("unknown output.format %q", c.Output.Format)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Level (debug, info, warn, error)
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
