package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	BaseURL        string   `mapstructure:"BASE_URL"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	JWTSigningKey  string   `mapstructure:"JWT_SIGNING_KEY"`
	SMTPAddr       string   `mapstructure:"SMTP_ADDR"`
	SMTPUser       string   `mapstructure:"SMTP_USER"`
	SMTPPassword   string   `mapstructure:"SMTP_PASSWORD"`
	MailFrom       string   `mapstructure:"MAIL_FROM"`
	SentinelValues []string `mapstructure:"SENTINEL_VALUES"`
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
	v.SetDefault("BASE_URL", "http://localhost:8000")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")
	v.SetDefault("SENTINEL_VALUES", "b/d,brak danych")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("BASE_URL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("SMTP_ADDR")
	v.BindEnv("SMTP_USER")
	v.BindEnv("SMTP_PASSWORD")
	v.BindEnv("MAIL_FROM")
	v.BindEnv("SENTINEL_VALUES")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}
	if cfg.SentinelValues == nil {
		if sentinels := v.GetString("SENTINEL_VALUES"); sentinels != "" {
			cfg.SentinelValues = splitTrimmed(sentinels)
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// mode a JWT signing key is required so the admin API is actually guarded,
// and SMTP must be configured so confirmations are deliverable.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSigningKey == "" {
			return fmt.Errorf("JWT_SIGNING_KEY is required when ENV=%q", c.Env)
		}
		if c.SMTPAddr == "" {
			return fmt.Errorf("SMTP_ADDR is required when ENV=%q", c.Env)
		}
	}
	if c.SMTPAddr != "" && !strings.Contains(c.SMTPAddr, ":") {
		return fmt.Errorf("SMTP_ADDR must be host:port, got %q", c.SMTPAddr)
	}
	return nil
}
