package config

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pricecharts/internal/errors"
)

// Image exporter names
const (
	ExporterPlot    = "plot"
	ExporterBrowser = "browser"
	ExporterNone    = "none"
)

// Image scale bounds; BasePPI is the resolution of a scale-1 image
const (
	MaxImageScale = 8
	BasePPI       = 96
)

// Config represents the complete application configuration
type Config struct {
	Input    InputConfig
	Output   OutputConfig
	Images   ImageConfig
	Charts   ChartConfig
	Server   ServerConfig
	LogLevel string
}

// InputConfig holds dataset source settings
type InputConfig struct {
	Path           string
	CurrencySymbol string
}

// OutputConfig holds artifact destination settings
type OutputConfig struct {
	Dir           string
	WriteIndex    bool
	WriteManifest bool
}

// ImageConfig holds optional PNG export settings
type ImageConfig struct {
	Enabled        bool
	Exporter       string
	Scale          float64
	BrowserBin     string
	BrowserTimeout time.Duration
}

// ChartConfig holds HTML chart settings
type ChartConfig struct {
	AssetsHost string
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Addr string
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Path:           "CleanedData.csv",
			CurrencySymbol: "£",
		},
		Output: OutputConfig{
			Dir: "plots",
		},
		Images: ImageConfig{
			Enabled:        true,
			Exporter:       ExporterPlot,
			Scale:          2,
			BrowserTimeout: 30 * time.Second,
		},
		Charts: ChartConfig{
			AssetsHost: "https://go-echarts.github.io/go-echarts-assets/assets/",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		LogLevel: "INFO",
	}
}

// Load reads configuration from the environment (and a .env file when present)
func Load() (*Config, error) {
	config := FromEnv()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// FromEnv reads .env and the environment without validating, so callers can
// layer overrides on top and validate the result once.
func FromEnv() *Config {
	// A missing .env is normal.
	_ = godotenv.Load()

	defaults := Default()
	return &Config{
		Input: InputConfig{
			Path:           getEnvOrDefault("INPUT_PATH", defaults.Input.Path),
			CurrencySymbol: getEnvOrDefault("CURRENCY_SYMBOL", defaults.Input.CurrencySymbol),
		},
		Output: OutputConfig{
			Dir:           getEnvOrDefault("OUTPUT_DIR", defaults.Output.Dir),
			WriteIndex:    getEnvBoolOrDefault("WRITE_INDEX", false),
			WriteManifest: getEnvBoolOrDefault("WRITE_MANIFEST", false),
		},
		Images: ImageConfig{
			Enabled:        getEnvBoolOrDefault("SAVE_PNG", defaults.Images.Enabled),
			Exporter:       strings.ToLower(getEnvOrDefault("IMAGE_EXPORTER", defaults.Images.Exporter)),
			Scale:          getEnvFloatOrDefault("IMAGE_SCALE", defaults.Images.Scale),
			BrowserBin:     getEnvOrDefault("BROWSER_BIN", ""),
			BrowserTimeout: getEnvDurationOrDefault("BROWSER_TIMEOUT", defaults.Images.BrowserTimeout),
		},
		Charts: ChartConfig{
			AssetsHost: getEnvOrDefault("ECHARTS_ASSETS_HOST", defaults.Charts.AssetsHost),
		},
		Server: ServerConfig{
			Addr: getEnvOrDefault("SERVE_ADDR", defaults.Server.Addr),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", defaults.LogLevel),
	}
}

// Validate checks field values that cannot be fixed up silently
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return errors.ConfigInvalid("input path is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	switch c.Images.Exporter {
	case ExporterPlot, ExporterBrowser, ExporterNone:
	default:
		return errors.ConfigInvalid("image exporter must be one of plot, browser, none; got " + strconv.Quote(c.Images.Exporter))
	}
	// NaN fails every comparison, so test the accepted range rather than its complement
	if !(c.Images.Scale > 0 && c.Images.Scale <= MaxImageScale) {
		return errors.ConfigInvalid("image scale must be in (0, 8]; got " + strconv.FormatFloat(c.Images.Scale, 'g', -1, 64))
	}
	if math.Round(BasePPI*c.Images.Scale) < 1 {
		return errors.ConfigInvalid("image scale " + strconv.FormatFloat(c.Images.Scale, 'g', -1, 64) + " is too small to render")
	}
	if c.Images.BrowserTimeout <= 0 {
		return errors.ConfigInvalid("browser timeout must be positive")
	}
	return nil
}

// PNGEnabled reports whether an image exporter should run at all
func (c *Config) PNGEnabled() bool {
	return c.Images.Enabled && c.Images.Exporter != ExporterNone
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
