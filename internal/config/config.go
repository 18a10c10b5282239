package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Env            string
	HTTPPort       string
	DatabaseURL    string
	Migrate        bool
	DBPingInterval time.Duration

	AdminPassword     string
	AdminPasswordHash string
	JWTSecret         string
	JWTIssuer         string

	RateRPS        int
	AllowedOrigins []string

	Currency             string
	StripeSecretKey      string
	StripePublishableKey string
	StripePaymentLink    string
	PayPalBusinessID     string
	PayPalItemName       string
	SiteURL              string

	SMTPHost     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	LogLevel string
	LogFile  string
}

func (c Config) IsProd() bool { return c.Env == "prod" }

// Load reads .env (if present), then the optional CONFIG_FILE toml table, then the process
// environment. Later sources win.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}

	file := map[string]any{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return build(source{file: file})
}

type source struct {
	file map[string]any
}

func (s source) get(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v, ok := s.file[key]; ok {
		return fmt.Sprint(v)
	}
	return def
}

func (s source) getInt(key string, def int) (int, error) {
	v := s.get(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func (s source) getBool(key string) bool {
	b, _ := strconv.ParseBool(s.get(key, "false"))
	return b
}

// getDuration accepts Go duration syntax or a bare number of seconds.
func (s source) getDuration(key string, def time.Duration) (time.Duration, error) {
	v := s.get(key, "")
	if v == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func build(s source) (Config, error) {
	cfg := Config{
		Env:         s.get("APP_ENV", "dev"),
		HTTPPort:    s.get("HTTP_PORT", "8080"),
		DatabaseURL: s.get("DATABASE_URL", ""),
		Migrate:     s.getBool("APP_MIGRATE"),

		AdminPassword:     s.get("ADMIN_PASSWORD", ""),
		AdminPasswordHash: s.get("ADMIN_PASSWORD_HASH", ""),
		JWTSecret:         s.get("JWT_SECRET", ""),
		JWTIssuer:         s.get("JWT_ISSUER", "charity-donations"),

		AllowedOrigins: splitList(s.get("ALLOWED_ORIGINS", "*")),

		Currency:             strings.ToUpper(s.get("CURRENCY", "AUD")),
		StripeSecretKey:      s.get("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: s.get("STRIPE_PUBLISHABLE_KEY", ""),
		StripePaymentLink:    s.get("STRIPE_PAYMENT_LINK", ""),
		PayPalBusinessID:     s.get("PAYPAL_BUSINESS_ID", ""),
		PayPalItemName:       s.get("PAYPAL_ITEM_NAME", "Donation"),
		SiteURL:              strings.TrimRight(s.get("SITE_URL", "http://localhost:8080"), "/"),

		SMTPHost:     s.get("SMTP_HOST", ""),
		SMTPUsername: s.get("SMTP_USERNAME", ""),
		SMTPPassword: s.get("SMTP_PASSWORD", ""),
		SMTPFrom:     s.get("SMTP_FROM", ""),

		LogLevel: strings.ToLower(s.get("LOG_LEVEL", "")),
		LogFile:  s.get("LOG_FILE", ""),
	}

	var err error
	if cfg.RateRPS, err = s.getInt("RATE_RPS", 100); err != nil {
		return Config{}, err
	}
	if cfg.DBPingInterval, err = s.getDuration("DB_PING_INTERVAL", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DBPingInterval <= 0 {
		return Config{}, errors.New("DB_PING_INTERVAL must be positive")
	}
	if len(cfg.Currency) != 3 {
		return Config{}, fmt.Errorf("CURRENCY %q is not an ISO 4217 code", cfg.Currency)
	}
	if cfg.IsProd() && cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required in prod")
	}
	return cfg, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
