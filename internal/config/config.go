package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Port           string
	Environment    string
	ClinicTimezone string
	JWTSecret      string
}

func Load() (*Config, error) {
	// Try to load the .env file, fall back to plain environment variables
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Port:           os.Getenv("PORT"),
		Environment:    os.Getenv("ENV"),
		ClinicTimezone: os.Getenv("CLINIC_TIMEZONE"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
	}

	// Defaults
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ClinicTimezone == "" {
		// The clinic schedules everything on Mexico City local time
		cfg.ClinicTimezone = "America/Mexico_City"
	}

	// Required fields
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// Location resolves the configured clinic timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("load clinic timezone %q: %w", c.ClinicTimezone, err)
	}
	return loc, nil
}
