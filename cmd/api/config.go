package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HttpPort            int           `json:"http_port"`
	DbConnString        string        `json:"db_conn_string"`
	RedisAddr           string        `json:"redis_addr"`
	StatsCacheTTLStr    string        `json:"stats_cache_ttl"`
	StatsCacheTTL       time.Duration `json:"-"`
	JWTSecret           string        `json:"jwt_secret"`
	TwilioBaseURL       string        `json:"twilio_base_url"`
	TwilioAccountSID    string        `json:"twilio_account_sid"`
	TwilioAuthToken     string        `json:"twilio_auth_token"`
	TwilioFromNumber    string        `json:"twilio_from_number"`
	ProviderTimeoutStr  string        `json:"provider_timeout"`
	ProviderTimeout     time.Duration `json:"-"`
	DispatchConcurrency int           `json:"dispatch_concurrency"`
	AppendMaxRetry      int           `json:"append_max_retry"`
	DeliveredStatus     string        `json:"delivered_status"`
	LogLevel            string        `json:"log_level"`
	LogFormat           string        `json:"log_format"`
}

func defaultConfig() *Config {
	return &Config{
		HttpPort:            6060,
		StatsCacheTTLStr:    "1m",
		ProviderTimeoutStr:  "10s",
		DispatchConcurrency: 4,
		AppendMaxRetry:      5,
		DeliveredStatus:     "delivered",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// ReadConfigJson reads json formatted configuration from the given file.
// Values found in the environment (or a .env file) take precedence.
func ReadConfigJson(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if err = json.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	// missing .env is fine
	_ = godotenv.Load()
	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.StatsCacheTTL, err = time.ParseDuration(cfg.StatsCacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid stats_cache_ttl: %w", err)
	}
	if cfg.ProviderTimeout, err = time.ParseDuration(cfg.ProviderTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid provider_timeout: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		"DATABASE_URL":        &c.DbConnString,
		"REDIS_ADDR":          &c.RedisAddr,
		"JWT_SECRET":          &c.JWTSecret,
		"TWILIO_ACCOUNT_SID":  &c.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":   &c.TwilioAuthToken,
		"TWILIO_PHONE_NUMBER": &c.TwilioFromNumber,
	}
	for key, dst := range overrides {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT: %w", err)
		}
		c.HttpPort = port
	}
	return nil
}

func (c *Config) validate() error {
	var errs []error
	if c.HttpPort <= 0 {
		errs = append(errs, errors.New("http_port must be positive"))
	}
	if c.DispatchConcurrency <= 0 {
		errs = append(errs, errors.New("dispatch_concurrency must be positive"))
	}
	if c.AppendMaxRetry <= 0 {
		errs = append(errs, errors.New("append_max_retry must be positive"))
	}
	if c.DbConnString == "" {
		errs = append(errs, errors.New("db_conn_string is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	return errors.Join(errs...)
}

// newLogger builds the root logger from log_level and log_format
func newLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
