package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
	AppName   string `mapstructure:"APP_NAME"`

	// Almacenamiento: NEHR upstream > Postgres > memoria.
	DBDSN       string        `mapstructure:"DB_DSN"`
	NEHRBaseURL string        `mapstructure:"NEHR_BASE_URL"`
	NEHRAPIKey  string        `mapstructure:"NEHR_API_KEY"`
	NEHRTimeout time.Duration `mapstructure:"NEHR_TIMEOUT"`
	SeedFile    string        `mapstructure:"SEED_FILE"`

	SessionSecret   string `mapstructure:"SESSION_SECRET"`
	SessionIssuer   string `mapstructure:"SESSION_ISSUER"`
	SessionAudience string `mapstructure:"SESSION_AUDIENCE"`
	SessionCookie   string `mapstructure:"SESSION_COOKIE"`
	SignInURL       string `mapstructure:"SIGN_IN_URL"`

	DefaultLocale string `mapstructure:"DEFAULT_LOCALE"`
	Timezone      string `mapstructure:"TIMEZONE"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT", "APP_NAME",
	"DB_DSN", "NEHR_BASE_URL", "NEHR_API_KEY", "NEHR_TIMEOUT", "SEED_FILE",
	"SESSION_SECRET", "SESSION_ISSUER", "SESSION_AUDIENCE", "SESSION_COOKIE", "SIGN_IN_URL",
	"DEFAULT_LOCALE", "TIMEZONE",
}

// Load lee env vars (y .env si existe) con defaults para desarrollo local.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("APP_NAME", "patient-portal")
	v.SetDefault("NEHR_TIMEOUT", "10s")
	v.SetDefault("SESSION_COOKIE", "portal_session")
	v.SetDefault("DEFAULT_LOCALE", "en")
	v.SetDefault("TIMEZONE", "Asia/Colombo")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env es opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.DefaultLocale = strings.ToLower(strings.TrimSpace(cfg.DefaultLocale))

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate: fuera de development se exige SESSION_SECRET (sin él no hay forma de
// verificar sesiones y el modo X-Debug-User-ID quedaría abierto).
func (c *Config) Validate() error {
	if !c.IsDev() && strings.TrimSpace(c.SessionSecret) == "" {
		return fmt.Errorf("SESSION_SECRET is required when ENV=%q", c.Env)
	}
	if (c.NEHRBaseURL == "") != (c.NEHRAPIKey == "") {
		return fmt.Errorf("NEHR_BASE_URL and NEHR_API_KEY must be set together")
	}
	if c.SeedFile != "" && c.NEHRBaseURL != "" {
		return fmt.Errorf("SEED_FILE cannot be used with NEHR_BASE_URL: seeding writes to the upstream record")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
