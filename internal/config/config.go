package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AppConfig holds the settings loaded by InitConfig.
var AppConfig Config

// Config is the verifier's runtime configuration.
type Config struct {
	LogLevel      logrus.Level
	LogFormat     string
	Workers       int
	RequestFormat string
}

// Load reads configuration from the environment, falling back to defaults.
// It uses its own viper instance and leaves package state untouched.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("VERIFY_WORKERS", 0)
	v.SetDefault("REQUEST_FORMAT", "json")

	logLevel, err := logrus.ParseLevel(strings.ToLower(v.GetString("LOG_LEVEL")))
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level: %w", err)
	}

	logFormat := strings.ToLower(v.GetString("LOG_FORMAT"))
	if logFormat != "text" && logFormat != "json" {
		return Config{}, fmt.Errorf("invalid log format %q, expected text or json", logFormat)
	}

	workers := v.GetInt("VERIFY_WORKERS")
	if workers < 0 {
		return Config{}, fmt.Errorf("invalid worker count %d", workers)
	}

	requestFormat := strings.ToLower(v.GetString("REQUEST_FORMAT"))
	switch requestFormat {
	case "json", "csv", "cbor":
	default:
		return Config{}, fmt.Errorf("invalid request format %q, expected json, csv or cbor", requestFormat)
	}

	return Config{
		LogLevel:      logLevel,
		LogFormat:     logFormat,
		Workers:       workers,
		RequestFormat: requestFormat,
	}, nil
}

// InitConfig loads AppConfig and configures the standard logger. Invalid
// settings are fatal.
func InitConfig() {
	cfg, err := Load()
	if err != nil {
		logrus.Fatalf("Init config: %v", err)
	}
	AppConfig = cfg

	ConfigureLogger(logrus.StandardLogger(), AppConfig)
	logrus.Debugf("Init config, LogLevel %v, Workers %d, RequestFormat %s",
		AppConfig.LogLevel, AppConfig.Workers, AppConfig.RequestFormat)
}

// ConfigureLogger applies level and format settings to logger.
func ConfigureLogger(logger *logrus.Logger, cfg Config) {
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(cfg.LogLevel)
}
