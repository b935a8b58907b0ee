package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
)

const (
	StoreBackendWorkbook = "workbook"
	StoreBackendPostgres = "postgres"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	OCR      OCRConfig
	Storage  StorageConfig
	Store    StoreConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	NEREnabled bool
	MaxRetries int
}

type OCRConfig struct {
	TesseractPath string
	Language      string
}

type StorageConfig struct {
	UploadPath     string
	MaxFileSize    int64
	MaxRequestSize int64
}

type StoreConfig struct {
	Backend      string
	WorkbookPath string
}

type PipelineConfig struct {
	Concurrency     int
	DocumentTimeout time.Duration
	SkillsWindow    int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "5000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "resume_screener"),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			NEREnabled: getEnvAsBool("NER_ENABLED", true),
			MaxRetries: getEnvAsInt("NER_MAX_RETRIES", 3),
		},
		OCR: OCRConfig{
			TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
			Language:      getEnv("OCR_LANGUAGE", "eng"),
		},
		Storage: StorageConfig{
			UploadPath:     getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize:    getEnvAsSize("MAX_FILE_SIZE", "10MB"),
			MaxRequestSize: getEnvAsSize("MAX_REQUEST_SIZE", "100MB"),
		},
		Store: StoreConfig{
			Backend:      strings.ToLower(getEnv("STORE_BACKEND", StoreBackendWorkbook)),
			WorkbookPath: getEnv("WORKBOOK_PATH", "resume_data.xlsx"),
		},
		Pipeline: PipelineConfig{
			Concurrency:     getEnvAsInt("WORKER_CONCURRENCY", 3),
			DocumentTimeout: getEnvAsDuration("DOCUMENT_TIMEOUT", "0s"),
			SkillsWindow:    getEnvAsInt("SKILLS_WINDOW", 300),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// Validate rejects combinations the services cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendWorkbook, StoreBackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Pipeline.Concurrency <= 0 {
		return fmt.Errorf("worker concurrency must be positive, got %d", c.Pipeline.Concurrency)
	}
	if c.Pipeline.SkillsWindow <= 0 {
		return fmt.Errorf("skills window must be positive, got %d", c.Pipeline.SkillsWindow)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.Storage.MaxFileSize)
	}
	if c.Storage.MaxRequestSize < c.Storage.MaxFileSize {
		return fmt.Errorf("max request size %d is below max file size %d", c.Storage.MaxRequestSize, c.Storage.MaxFileSize)
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSize accepts plain byte counts as well as "10MB" style values.
func getEnvAsSize(key string, defaultValue string) int64 {
	valueStr := getEnv(key, defaultValue)
	if size, err := units.FromHumanSize(valueStr); err == nil {
		return size
	}
	size, _ := units.FromHumanSize(defaultValue)
	return size
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
