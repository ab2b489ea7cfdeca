// Package config loads service configuration from the environment.
package config

import (
	"os"
	"time"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Host string
	Port string

	AWSRegion   string
	Table       string
	FarmerIndex string
	CropIndex   string
	Bucket      string

	CognitoDomain       string
	CognitoClientID     string
	CognitoClientSecret string
	CognitoUserPoolID   string

	BaseURL    string
	CookieName string
	SessionTTL time.Duration
}

// Load reads configuration from environment variables, falling back to
// defaults where one exists. Secrets have no defaults.
func Load() *Config {
	return &Config{
		Host: getEnv("HOST", "0.0.0.0"),
		Port: getEnv("PORT", "8080"),

		AWSRegion:   getEnv("AWS_REGION", "ap-south-1"),
		Table:       getEnv("DYNAMO_TABLE_NAME", "crop_images"),
		FarmerIndex: getEnv("DYNAMO_FARMER_INDEX", "GSI_FarmerNameTimestamp"),
		CropIndex:   getEnv("DYNAMO_CROP_INDEX", "GSI_CropNameTimestamp"),
		Bucket:      getEnv("S3_BUCKET_NAME", ""),

		CognitoDomain:       os.Getenv("COGNITO_DOMAIN"),
		CognitoClientID:     os.Getenv("COGNITO_CLIENT_ID"),
		CognitoClientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
		CognitoUserPoolID:   os.Getenv("COGNITO_USER_POOL_ID"),

		BaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		CookieName: getEnv("AUTH_COOKIE_NAME", "agri_auth"),
		SessionTTL: getDuration("SESSION_TTL", 8*time.Hour),
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
