package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"internship-bot/models"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot_token", "")
	v.SetDefault("bot.prefix", "!")
	v.SetDefault("bot.trustedAuthor", "Zapier")
	v.SetDefault("bot.adminChannelId", "")
	v.SetDefault("bot.sweepSchedule", "@every 15m")
	v.SetDefault("bot.timezone", "Local")
	v.SetDefault("database.path", "data/postings.db")
	v.SetDefault("forms.address", "")
	v.SetDefault("forms.timeout", 10*time.Second)
	v.SetDefault("commands.auth.developers", []string{})
	v.SetDefault("commands.auth.adminsRoles", []string{})
}

// LoadConfig loads configuration from the .env file, config.yaml and the environment.
// Load order:
// 1. .env file (environment variables)
// 2. config.yaml in the working directory
// Environment variables override values from the config file.
func LoadConfig() (*models.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, skipping.")
	}

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("config.yaml not found, using environment variables and defaults.")
		} else {
			return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
		}
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*models.Config, error) {
	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("no bot token provided, set BOT_TOKEN in .env or the environment")
	}
	if cfg.Forms.Address == "" {
		return nil, fmt.Errorf("forms.address is required")
	}
	if cfg.Forms.Timeout <= 0 {
		return nil, fmt.Errorf("forms.timeout must be positive, got %s", cfg.Forms.Timeout)
	}
	if _, err := cron.ParseStandard(cfg.Bot.SweepSchedule); err != nil {
		return nil, fmt.Errorf("invalid bot.sweepSchedule %q: %w", cfg.Bot.SweepSchedule, err)
	}
	if _, err := cfg.Bot.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
