package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/imsoft/cursumi/internal/shared/infrastructure/database"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database database.PostgresConfig
	Redis    database.RedisConfig
	Stripe   StripeConfig
	Storage  StorageConfig
	Email    EmailConfig
	Download DownloadConfig
	App      AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// AppConfig holds storefront-wide settings
type AppConfig struct {
	// BaseURL is the public URL of the storefront, used to build
	// success/cancel/download links.
	BaseURL string
}

// StripeConfig holds Stripe payment gateway configuration
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StorageConfig holds object storage configuration for ebook files
type StorageConfig struct {
	Region         string
	Endpoint       string // Internal endpoint (e.g., minio:9000)
	PublicEndpoint string // Public endpoint (e.g., localhost:9000)
	AccessKey      string
	SecretKey      string
	BucketName     string
	UseSSL         bool
}

// EmailConfig holds transactional email configuration
type EmailConfig struct {
	ResendAPIKey     string
	FromAddress      string
	ContactFrom      string
	ContactRecipient string
}

// DownloadConfig holds download link issuance configuration
type DownloadConfig struct {
	// TokenSecret signs the download tokens embedded in emailed links.
	TokenSecret string
	// TokenTTL bounds how long an emailed link stays redeemable.
	TokenTTL time.Duration
	// URLExpiry bounds the presigned object URL a redeemed link redirects to.
	URLExpiry time.Duration
}

// Load reads configuration from environment variables
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "cursumi"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		},
		Storage: StorageConfig{
			Region:         getEnv("S3_REGION", "us-east-1"),
			Endpoint:       getEnv("S3_ENDPOINT", ""),
			PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", getEnv("S3_ENDPOINT", "")),
			AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			SecretKey:      getEnv("S3_SECRET_KEY", ""),
			BucketName:     getEnv("S3_BUCKET", "ebooks"),
			UseSSL:         getEnv("S3_USE_SSL", "true") == "true",
		},
		Email: EmailConfig{
			ResendAPIKey:     getEnv("RESEND_API_KEY", ""),
			FromAddress:      getEnv("EMAIL_FROM", "Cursumi <no-reply@cursumi.com>"),
			ContactFrom:      getEnv("CONTACT_EMAIL_FROM", "Cursumi Contact <cursumi.com@gmail.com>"),
			ContactRecipient: getEnv("CONTACT_EMAIL_RECIPIENT", ""),
		},
		Download: DownloadConfig{
			TokenSecret: getEnv("DOWNLOAD_TOKEN_SECRET", ""),
			TokenTTL:    parseDuration(getEnv("DOWNLOAD_TOKEN_TTL", "168h"), 168*time.Hour),
			URLExpiry:   parseDuration(getEnv("DOWNLOAD_URL_EXPIRY", "60s"), 60*time.Second),
		},
		App: AppConfig{
			BaseURL: strings.TrimSuffix(getEnv("APP_BASE_URL", ""), "/"),
		},
	}
}

// Validate fails fast when a required setting is absent. The service refuses
// to start half-configured rather than failing on the first checkout.
func (c Config) Validate() error {
	var missing []string

	type setting struct {
		name  string
		value string
	}
	required := []setting{
		{"DB_USER", c.Database.User},
		{"DB_PASSWORD", c.Database.Password},
		{"STRIPE_SECRET_KEY", c.Stripe.SecretKey},
		{"STRIPE_WEBHOOK_SECRET", c.Stripe.WebhookSecret},
		{"APP_BASE_URL", c.App.BaseURL},
		{"RESEND_API_KEY", c.Email.ResendAPIKey},
		{"CONTACT_EMAIL_RECIPIENT", c.Email.ContactRecipient},
		{"S3_BUCKET", c.Storage.BucketName},
		{"DOWNLOAD_TOKEN_SECRET", c.Download.TokenSecret},
	}
	// A custom endpoint (MinIO) authenticates with static keys; plain AWS
	// resolves credentials from the environment instead.
	if c.Storage.Endpoint != "" {
		required = append(required,
			setting{"S3_ACCESS_KEY", c.Storage.AccessKey},
			setting{"S3_SECRET_KEY", c.Storage.SecretKey},
		)
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
