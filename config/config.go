package config

import (
	"time"

	"gradepay/internal/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Ledger   LedgerConfig
	Paystack PaystackConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// LedgerConfig holds operational knobs that are not admin-editable settings.
type LedgerConfig struct {
	ReferralStatsInterval time.Duration
}

type PaystackConfig struct {
	BaseURL   string
	SecretKey string
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads config.yaml (if present) with env-var override and defaults.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/gradepay")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.env", "development")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "10s")
	viper.SetDefault("database.dsn", "gradepay:gradepay@tcp(localhost:3306)/gradepay?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", "1h")
	viper.SetDefault("jwt.access_secret", "change-me-in-production")
	viper.SetDefault("jwt.refresh_secret", "change-me-refresh")
	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")
	viper.SetDefault("jwt.issuer", "gradepay")
	viper.SetDefault("ledger.referral_stats_interval", "5m")
	viper.SetDefault("paystack.base_url", "https://api.paystack.co")
	viper.SetDefault("paystack.secret_key", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("gradepay")

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("could not read config file, using defaults: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:         viper.GetString("server.port"),
			Env:          viper.GetString("server.env"),
			ReadTimeout:  viper.GetDuration("server.read_timeout"),
			WriteTimeout: viper.GetDuration("server.write_timeout"),
		},
		Database: DatabaseConfig{
			DSN:             viper.GetString("database.dsn"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		},
		JWT: JWTConfig{
			AccessSecret:  viper.GetString("jwt.access_secret"),
			RefreshSecret: viper.GetString("jwt.refresh_secret"),
			AccessExpiry:  viper.GetDuration("jwt.access_expiry"),
			RefreshExpiry: viper.GetDuration("jwt.refresh_expiry"),
			Issuer:        viper.GetString("jwt.issuer"),
		},
		Ledger: LedgerConfig{
			ReferralStatsInterval: viper.GetDuration("ledger.referral_stats_interval"),
		},
		Paystack: PaystackConfig{
			BaseURL:   viper.GetString("paystack.base_url"),
			SecretKey: viper.GetString("paystack.secret_key"),
		},
		Log: LogConfig{
			Level: viper.GetString("log.level"),
			File:  viper.GetString("log.file"),
		},
	}
}
