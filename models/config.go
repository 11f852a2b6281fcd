package models

import (
	"fmt"
	"time"
)

// Config is the full runtime configuration, unmarshalled from config.yaml and the environment.
type Config struct {
	BotToken string         `mapstructure:"bot_token"`
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Forms    FormsConfig    `mapstructure:"forms"`
	Commands CommandsConfig `mapstructure:"commands"`
}

// BotConfig holds the Discord-facing settings.
type BotConfig struct {
	Prefix         string `mapstructure:"prefix"`
	TrustedAuthor  string `mapstructure:"trustedauthor"`
	AdminChannelID string `mapstructure:"adminchannelid"`
	SweepSchedule  string `mapstructure:"sweepschedule"`
	Timezone       string `mapstructure:"timezone"`
}

// DatabaseConfig points at the sqlite file holding postings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// FormsConfig configures the gRPC form service.
type FormsConfig struct {
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CommandsConfig represents the "commands" section of config.yaml.
type CommandsConfig struct {
	Auth AuthConfig `mapstructure:"auth"`
}

// AuthConfig lists who may run privileged commands.
type AuthConfig struct {
	Developers  []string `mapstructure:"developers"`
	AdminsRoles []string `mapstructure:"adminsroles"`
}

// Location resolves the timezone that decides when a calendar day starts.
func (c BotConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid bot.timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
