package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Broadcast struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"broadcast"`
	Admin struct {
		PasswordHash    string `yaml:"password_hash"`
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"admin"`
	Moderation struct {
		Enabled          bool   `yaml:"enabled"`
		TelegramBotToken string `yaml:"telegram_bot_token"`
		TelegramChatID   int64  `yaml:"telegram_chat_id"`
	} `yaml:"moderation"`
}

// LoadConfig reads configuration from the specified YAML file. A .env file in
// the working directory is loaded first, and TOOLBAY_* environment variables
// override the file values so secrets stay out of the config file.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load() // Missing .env is fine

	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyEnvOverrides(config)

	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Database.URL == "" {
		return nil, fmt.Errorf("database.url is required")
	}
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TOOLBAY_PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("TOOLBAY_DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("TOOLBAY_ALLOWED_ORIGINS"); v != "" {
		config.CORS.AllowedOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("TOOLBAY_ADMIN_PASSWORD_HASH"); v != "" {
		config.Admin.PasswordHash = v
	}
	if v := os.Getenv("TOOLBAY_ADMIN_JWT_SECRET"); v != "" {
		config.Admin.JWTSecret = v
	}
	if v := os.Getenv("TOOLBAY_TELEGRAM_BOT_TOKEN"); v != "" {
		config.Moderation.TelegramBotToken = v
	}
	if v := os.Getenv("TOOLBAY_TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Moderation.TelegramChatID = id
		}
	}
}
