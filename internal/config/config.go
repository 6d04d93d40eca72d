package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	AuthIssuer   string `mapstructure:"AUTH_ISSUER"`
	AuthAudience string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `mapstructure:"AUTH_JWKS_URL"`

	LineChannelAccessToken string `mapstructure:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineChannelSecret      string `mapstructure:"LINE_CHANNEL_SECRET"`
	LineUserID             string `mapstructure:"LINE_USER_ID"`
	LineGroupID            string `mapstructure:"LINE_GROUP_ID"`

	DigestHour int    `mapstructure:"DIGEST_HOUR"`
	Timezone   string `mapstructure:"TIMEZONE"`

	StorageEndpoint     string `mapstructure:"STORAGE_ENDPOINT"`
	StorageRegion       string `mapstructure:"STORAGE_REGION"`
	StorageBucket       string `mapstructure:"STORAGE_BUCKET"`
	SignedURLTTLSeconds int    `mapstructure:"SIGNED_URL_TTL_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DIGEST_HOUR", 6)
	v.SetDefault("TIMEZONE", "Asia/Bangkok")
	v.SetDefault("STORAGE_BUCKET", "patient-documents")
	v.SetDefault("SIGNED_URL_TTL_SECONDS", 600)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_ISSUER")
	v.BindEnv("AUTH_AUDIENCE")
	v.BindEnv("AUTH_JWKS_URL")
	v.BindEnv("LINE_CHANNEL_ACCESS_TOKEN")
	v.BindEnv("LINE_CHANNEL_SECRET")
	v.BindEnv("LINE_USER_ID")
	v.BindEnv("LINE_GROUP_ID")
	v.BindEnv("DIGEST_HOUR")
	v.BindEnv("TIMEZONE")
	v.BindEnv("STORAGE_ENDPOINT")
	v.BindEnv("STORAGE_REGION")
	v.BindEnv("STORAGE_BUCKET")
	v.BindEnv("SIGNED_URL_TTL_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: All requests get admin access. Do NOT use in production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves the configured timezone. Appointment dates, the digest
// schedule, and "today" are all computed in this zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LineRecipients returns the configured push targets. Either may be empty;
// both empty means the daily digest has nowhere to go.
func (c *Config) LineRecipients() []string {
	var to []string
	if c.LineUserID != "" {
		to = append(to, c.LineUserID)
	}
	if c.LineGroupID != "" {
		to = append(to, c.LineGroupID)
	}
	return to
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	if c.DigestHour < 0 || c.DigestHour > 23 {
		return fmt.Errorf("DIGEST_HOUR must be between 0 and 23, got %d", c.DigestHour)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", c.Timezone, err)
	}
	if (c.LineChannelAccessToken == "") != (c.LineChannelSecret == "") {
		return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN and LINE_CHANNEL_SECRET must be set together")
	}
	if c.IsProduction() && c.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER must be set in production: refusing to start without authentication")
	}
	return nil
}
