package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Paths    PathsConfig
	OCR      OCRConfig
	Images   ImagesConfig
	Extract  ExtractConfig
	Output   OutputConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

// PathsConfig holds the input/output locations of a run
type PathsConfig struct {
	InputDir  string
	OutputDir string
}

// OCRConfig holds recognizer-related configuration
type OCRConfig struct {
	Engine       string // "exec" | "gosseract"
	Tesseract    string
	TessdataDir  string
	Languages    []string
	PrimaryPSM   int
	SecondaryPSM int
	OEM          int
	Timeout      time.Duration
	TmpDir       string
}

// ImagesConfig holds preprocessing and catalog image settings
type ImagesConfig struct {
	ContrastFactor   float64
	BrightnessFactor float64
	MaxWidth         int
	Format           string // "png" | "jpg"
	JPEGQuality      int
}

// ExtractConfig holds field extractor settings
type ExtractConfig struct {
	RulesFile string
}

// OutputConfig holds artifact settings
type OutputConfig struct {
	CatalogVersion string
	ImagePrefix    string
	SQLite         bool
	PostgresDSN    string
}

// PipelineConfig holds run-level settings
type PipelineConfig struct {
	Workers int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			InputDir:  getEnv("CATALOG_INPUT_DIR", "catalogo"),
			OutputDir: getEnv("CATALOG_OUTPUT_DIR", "public/catalogo-data"),
		},
		OCR: OCRConfig{
			Engine:       getEnv("OCR_ENGINE", "exec"),
			Tesseract:    getEnv("TESSERACT_BIN", "tesseract"),
			TessdataDir:  getEnv("TESSDATA_PREFIX", ""),
			Languages:    getEnvAsList("OCR_LANG", []string{"spa", "eng"}),
			PrimaryPSM:   getEnvAsInt("OCR_PSM_PRIMARY", 3),
			SecondaryPSM: getEnvAsInt("OCR_PSM_SECONDARY", 6),
			OEM:          getEnvAsInt("OCR_OEM", 3),
			Timeout:      getEnvAsDuration("OCR_TIMEOUT", 8*time.Second),
			TmpDir:       getEnv("OCR_TMP_DIR", ""),
		},
		Images: ImagesConfig{
			ContrastFactor:   getEnvAsFloat64("PREPROCESS_CONTRAST", 2.0),
			BrightnessFactor: getEnvAsFloat64("PREPROCESS_BRIGHTNESS", 1.2),
			MaxWidth:         getEnvAsInt("IMAGE_MAX_WIDTH", 800),
			Format:           getEnv("IMAGE_FORMAT", "png"),
			JPEGQuality:      getEnvAsInt("IMAGE_JPEG_QUALITY", 85),
		},
		Extract: ExtractConfig{
			RulesFile: getEnv("EXTRACT_RULES_FILE", ""),
		},
		Output: OutputConfig{
			CatalogVersion: getEnv("CATALOG_VERSION", ""),
			ImagePrefix:    getEnv("CATALOG_IMAGE_PREFIX", "catalogo-data/images"),
			SQLite:         getEnvAsBool("CATALOG_SQLITE", false),
			PostgresDSN:    getEnv("CATALOG_PG_DSN", ""),
		},
		Pipeline: PipelineConfig{
			Workers: getEnvAsInt("PIPELINE_WORKERS", 1),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits on '+' or ',' so both "spa+eng" and "spa,eng" work.
func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return SplitList(value)
}

// SplitList splits a "spa+eng" / "spa,eng" style list, dropping empty entries.
func SplitList(value string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == '+' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return NewAppError(CodeConfig, "CATALOG_INPUT_DIR is required", ErrInvalidInput)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return NewAppError(CodeConfig, "CATALOG_OUTPUT_DIR is required", ErrInvalidInput)
	}
	if c.OCR.Engine != "exec" && c.OCR.Engine != "gosseract" {
		return NewAppError(CodeConfig, "OCR_ENGINE must be exec or gosseract", ErrInvalidInput)
	}
	if len(c.OCR.Languages) == 0 {
		return NewAppError(CodeConfig, "OCR_LANG is required", ErrInvalidInput)
	}
	if c.OCR.Timeout <= 0 {
		return NewAppError(CodeConfig, "OCR_TIMEOUT must be positive", ErrInvalidInput)
	}
	if c.Images.ContrastFactor <= 1 {
		return NewAppError(CodeConfig, "PREPROCESS_CONTRAST must be greater than 1", ErrInvalidInput)
	}
	if c.Images.MaxWidth <= 0 {
		return NewAppError(CodeConfig, "IMAGE_MAX_WIDTH must be positive", ErrInvalidInput)
	}
	if c.Images.Format != "png" && c.Images.Format != "jpg" {
		return NewAppError(CodeConfig, "IMAGE_FORMAT must be png or jpg", ErrInvalidInput)
	}
	if c.Pipeline.Workers < 1 {
		return NewAppError(CodeConfig, "PIPELINE_WORKERS must be at least 1", ErrInvalidInput)
	}
	return nil
}
