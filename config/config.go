package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port   string
	DBName string
	JWTKey string

	EmailSender    string
	SendGridAPIKey string

	StorageBaseURL string // blob storage API; empty means local-disk fallback
	StorageAPIKey  string
	StorageBucket  string
	UploadDir      string

	RendererURL      string // certificate PDF renderer service
	RenderTimeoutSec int

	CertRetryCron string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:   getEnv("PORT", "3000"),
		DBName: getEnv("DB_NAME", "lms"),
		JWTKey: getEnv("JWT_SECRET_KEY", "defaultSecret"),

		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),

		StorageBaseURL: getEnv("STORAGE_BASE_URL", ""),
		StorageAPIKey:  getEnv("STORAGE_API_KEY", ""),
		StorageBucket:  getEnv("STORAGE_BUCKET", "lms-documents"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),

		RendererURL:      getEnv("RENDERER_URL", ""),
		RenderTimeoutSec: getEnvInt("RENDER_TIMEOUT_SEC", 15),

		CertRetryCron: getEnv("CERT_RETRY_CRON", "*/10 * * * *"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RendererURL == "" {
		log.Println("Warning: RENDERER_URL not set. Certificate PDFs will not be rendered.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
