package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Knowledge storage backends
const (
	BackendPostgres = "postgres"
	BackendFile     = "file"
)

// Config holds all application configuration
type Config struct {
	BotToken    string
	BotPassword string
	Database    DatabaseConfig
	Practice    PracticeConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// PracticeConfig holds course and scheduling settings
type PracticeConfig struct {
	CoursesDir             string
	KnowledgeBackend       string
	KnowledgeFile          string
	DefaultCourse          string
	BatchSize              int
	AutoAdvanceDelay       time.Duration
	ProgressReportInterval time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotPassword: os.Getenv("BOT_PASSWORD"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "drillbot"),
			User:     getEnv("DB_USER", "drillbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		Practice: PracticeConfig{
			CoursesDir:       getEnv("COURSES_DIR", "courses"),
			KnowledgeBackend: getEnv("KNOWLEDGE_BACKEND", BackendPostgres),
			KnowledgeFile:    getEnv("KNOWLEDGE_FILE", "knowledge.json"),
			DefaultCourse:    os.Getenv("DEFAULT_COURSE"),
		},
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.BotPassword == "" {
		return nil, fmt.Errorf("BOT_PASSWORD is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	switch cfg.Practice.KnowledgeBackend {
	case BackendPostgres, BackendFile:
	default:
		return nil, fmt.Errorf("KNOWLEDGE_BACKEND must be %q or %q, got %q",
			BackendPostgres, BackendFile, cfg.Practice.KnowledgeBackend)
	}

	var err error
	if cfg.Practice.BatchSize, err = getEnvInt("BATCH_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Practice.BatchSize <= 0 {
		return nil, fmt.Errorf("BATCH_SIZE must be positive")
	}
	if cfg.Practice.AutoAdvanceDelay, err = getEnvDuration("AUTO_ADVANCE_DELAY", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.Practice.ProgressReportInterval, err = getEnvDuration("PROGRESS_REPORT_INTERVAL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Practice.ProgressReportInterval <= 0 {
		return nil, fmt.Errorf("PROGRESS_REPORT_INTERVAL must be positive")
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 2s: %w", key, err)
	}
	return d, nil
}
