package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	JWTSecret     string
	JWTExpiresIn  string
	AdminEmail    string
	AdminPassword string
	WebhookSecret string
	FrontendURL   string
	Port          string
	Env           string
}

// LoadConfig loads configuration from environment variables. A missing .env
// file is not an error; deployed environments inject variables directly.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiresIn:  os.Getenv("JWT_EXPIRES_IN"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		FrontendURL:   os.Getenv("FRONTEND_URL"),
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("ENV"),
	}

	if config.Port == "" {
		config.Port = "5000"
	}

	return config, nil
}
