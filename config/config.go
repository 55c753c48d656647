package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env when GO_ENV is unset or
// "development". A missing .env file is not an error.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	GO_ENV       string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	PORT         int
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// Course lookup
	COURSE_API_URL        string
	COURSE_LOOKUP_TIMEOUT time.Duration
	LOOKUP_CACHE_TTL      time.Duration
	// Catalog refresh
	CATALOG_SOURCE_URL       string
	CATALOG_REFRESH_SCHEDULE string
	CRON_ENABLED             bool
	// HTTP
	ALLOWED_ORIGINS string
}

func Get() (*EnvironmentVariable, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getOrDefault("DB_SSL_MODE", "disable"),
		PORT:         port,
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getOrDefault("JWT_ISSUER", "uq-program-planner"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// Course lookup
		COURSE_API_URL:        getOrDefault("COURSE_API_URL", "http://localhost:8080"),
		COURSE_LOOKUP_TIMEOUT: getDuration("COURSE_LOOKUP_TIMEOUT", 10*time.Second),
		LOOKUP_CACHE_TTL:      getDuration("LOOKUP_CACHE_TTL", 24*time.Hour),
		// Catalog refresh
		CATALOG_SOURCE_URL:       getOrDefault("CATALOG_SOURCE_URL", "https://programs-courses.uq.edu.au"),
		CATALOG_REFRESH_SCHEDULE: getOrDefault("CATALOG_REFRESH_SCHEDULE", "0 3 * * *"),
		CRON_ENABLED:             os.Getenv("CRON_ENABLED") != "false",
		// HTTP
		ALLOWED_ORIGINS: getOrDefault("ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	return envVariables, nil
}

// DSN builds the postgres connection string.
func (e *EnvironmentVariable) DSN() string {
	return "host=" + e.DB_HOST +
		" user=" + e.DB_USER_NAME +
		" password=" + e.DB_PASSWORD +
		" dbname=" + e.DB_NAME +
		" port=" + e.DB_PORT +
		" sslmode=" + e.DB_SSL_MODE
}

// PostgresURL builds the postgres URL form used by pgx.
func (e *EnvironmentVariable) PostgresURL() string {
	return "postgres://" + e.DB_USER_NAME + ":" + e.DB_PASSWORD +
		"@" + e.DB_HOST + ":" + e.DB_PORT + "/" + e.DB_NAME + "?sslmode=" + e.DB_SSL_MODE
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go duration strings ("15s") or plain seconds ("15").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
