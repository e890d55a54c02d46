package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	Inspection                InspectionConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// InspectionConfig holds the tunable thresholds of the inspection core.
// These are configuration rather than compile-time constants so deployments
// can adjust them and tests can exercise the boundaries.
type InspectionConfig struct {
	// PassingScore is the minimum total score for a PASSED cycle.
	PassingScore int
	// SlotDuration is the fixed length of every availability slot.
	SlotDuration time.Duration
	// ReenrollCutoffDays is the minimum age, in days, of a last-year PASSED
	// cycle before the re-enrollment job picks it up outside the year-end
	// window.
	ReenrollCutoffDays int
	// MaxSlotResults caps the available-slot listing.
	MaxSlotResults int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "inspections"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := getEnvInt("JWT_EXPIRATION_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	jwtRefreshExpHours, err := getEnvInt("JWT_REFRESH_EXPIRATION_HOURS", 168) // 7 days
	if err != nil {
		return nil, err
	}

	passingScore, err := getEnvInt("PASSING_SCORE", 40)
	if err != nil {
		return nil, err
	}

	slotMinutes, err := getEnvInt("SLOT_DURATION_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	cutoffDays, err := getEnvInt("REENROLL_CUTOFF_DAYS", 330)
	if err != nil {
		return nil, err
	}

	maxSlotResults, err := getEnvInt("MAX_SLOT_RESULTS", 100)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             getEnv("PORT", "3001"),
		Origin:           getEnv("ORIGIN", "http://localhost:4200"),
		Environment:      getEnv("APP_ENV", "development"),
		JWTSecret:        getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:         dbConfig,
		Inspection: InspectionConfig{
			PassingScore:       passingScore,
			SlotDuration:       time.Duration(slotMinutes) * time.Minute,
			ReenrollCutoffDays: cutoffDays,
			MaxSlotResults:     maxSlotResults,
		},
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
	}, nil
}

// DefaultInspectionConfig returns the stock thresholds, used by the batch
// binaries and tests that do not load a full environment.
func DefaultInspectionConfig() InspectionConfig {
	return InspectionConfig{
		PassingScore:       40,
		SlotDuration:       time.Hour,
		ReenrollCutoffDays: 330,
		MaxSlotResults:     100,
	}
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
