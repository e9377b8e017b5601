package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	JWTRefreshSecret       string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	ResetTokenTTL          time.Duration
	DashboardCacheTTL      time.Duration
	FrontendBaseURL        string
	SendGridAPIKey         string
	EmailFrom              string
	EmailFromName          string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	BcryptCost             int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether the service runs with development
// conveniences enabled, such as the reset-link fallback response.
func (c Config) IsDevelopment() bool {
	return c.AppEnv != "production"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "LMS API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("access_token_ttl", "1h")
	v.SetDefault("refresh_token_ttl", "168h")
	v.SetDefault("reset_token_ttl", "15m")
	v.SetDefault("dashboard.cache_ttl", "2m")
	v.SetDefault("frontend.base_url", "http://localhost:5173")
	v.SetDefault("email.from", "no-reply@lms.local")
	v.SetDefault("email.from_name", "LMS Team")
	v.SetDefault("cloudinary.folder", "lms/uploads")
	v.SetDefault("bcrypt_cost", 10)

	accessTTL, err := parseTTL(v, "access_token_ttl", time.Hour)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseTTL(v, "refresh_token_ttl", 168*time.Hour)
	if err != nil {
		return Config{}, err
	}
	resetTTL, err := parseTTL(v, "reset_token_ttl", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := parseTTL(v, "dashboard.cache_ttl", 2*time.Minute)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		AccessTokenTTL:         accessTTL,
		RefreshTokenTTL:        refreshTTL,
		ResetTokenTTL:          resetTTL,
		DashboardCacheTTL:      cacheTTL,
		FrontendBaseURL:        strings.TrimRight(v.GetString("frontend.base_url"), "/"),
		SendGridAPIKey:         v.GetString("sendgrid_api_key"),
		EmailFrom:              v.GetString("email.from"),
		EmailFromName:          v.GetString("email.from_name"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		BcryptCost:             v.GetInt("bcrypt_cost"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = 10
	}

	return cfg, nil
}

func parseTTL(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}

	return ttl, nil
}
