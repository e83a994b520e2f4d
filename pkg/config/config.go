package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"fab-weekly/pkg/models"
)

const (
	SourceCSV      = "csv"
	SourceMySQL    = "mysql"
	SourcePostgres = "postgres"
)

type Config struct {
	Source        SourceConfig
	Output        OutputConfig
	Logger        LoggerConfig
	SemestersFile string
	Semesters     []models.SemesterSpec
	Today         string // YYYY-MM-DD, empty means the current date
	FetchTimeout  time.Duration
}

type SourceConfig struct {
	Kind         string
	FormsCSV     string
	BatchesCSV   string
	DSN          string
	FormsTable   string
	BatchesTable string
}

type OutputConfig struct {
	Dir string
}

type LoggerConfig struct {
	Level  string
	Format string
}

// DefaultSemesters are used when no semesters file is configured.
var DefaultSemesters = []models.SemesterSpec{
	{Start: "2023-08-20", End: "2023-12-09", Tag: "23_Fall"},
	{Start: "2024-01-14", End: "2024-05-5", Tag: "24_Spring"},
}

// Load reads the configuration from the environment. Flags may override the
// fields afterwards; call LoadSemesters and Validate once they have.
func Load() *Config {
	return &Config{
		Source: SourceConfig{
			Kind:         getEnvString("FAB_SOURCE", SourceCSV),
			FormsCSV:     getEnvString("FAB_FORMS_CSV", "form_responses.csv"),
			BatchesCSV:   getEnvString("FAB_BATCHES_CSV", "print_batches.csv"),
			DSN:          os.Getenv("FAB_DSN"),
			FormsTable:   getEnvString("FAB_FORMS_TABLE", "form_responses"),
			BatchesTable: getEnvString("FAB_BATCHES_TABLE", "print_batches"),
		},
		Output: OutputConfig{
			Dir: getEnvString("FAB_OUTPUT_DIR", "."),
		},
		Logger: LoggerConfig{
			Level:  getEnvString("LOG_LEVEL", "info"),
			Format: getEnvString("LOG_FORMAT", "text"),
		},
		SemestersFile: os.Getenv("FAB_SEMESTERS_FILE"),
		Today:         os.Getenv("FAB_TODAY"),
		FetchTimeout:  getEnvDuration("FAB_FETCH_TIMEOUT", 2*time.Minute),
	}
}

type semestersFile struct {
	Semesters []models.SemesterSpec `yaml:"semesters"`
}

// LoadSemesters fills Semesters from SemestersFile, or from DefaultSemesters
// when no file is set.
func (c *Config) LoadSemesters() error {
	if c.SemestersFile == "" {
		c.Semesters = append([]models.SemesterSpec(nil), DefaultSemesters...)
		return nil
	}
	data, err := os.ReadFile(c.SemestersFile)
	if err != nil {
		return fmt.Errorf("read semesters file: %w", err)
	}
	var f semestersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse semesters file %s: %w", c.SemestersFile, err)
	}
	if len(f.Semesters) == 0 {
		return fmt.Errorf("semesters file %s lists no semesters", c.SemestersFile)
	}
	c.Semesters = f.Semesters
	return nil
}

func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.FormsCSV == "" || c.Source.BatchesCSV == "" {
			return fmt.Errorf("csv source needs both the form responses and print batches files")
		}
	case SourceMySQL, SourcePostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("%s source needs a DSN (FAB_DSN or -dsn)", c.Source.Kind)
		}
	default:
		return fmt.Errorf("invalid source %q, must be one of: %s", c.Source.Kind, strings.Join([]string{SourceCSV, SourceMySQL, SourcePostgres}, ", "))
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}

	validLogFormats := []string{"json", "text"}
	if !contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
