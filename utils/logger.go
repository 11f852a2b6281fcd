package utils

import (
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

// embedSender is the part of *discordgo.Session the logger needs.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	session   embedSender
	channelID string
)

// InitLogger mirrors log entries into adminChannelID through s.
func InitLogger(s embedSender, adminChannelID string) {
	session = s
	channelID = adminChannelID
	if channelID == "" {
		log.Println("Warning: bot.adminChannelId is not set. Logging to channel will be disabled.")
	}
}

// Log writes a log line and, when an admin channel is configured, sends it there as an embed.
func Log(level, module, operation, details string) {
	log.Printf("[%s] Module: %s, Operation: %s, Details: %s", level, module, operation, details)
	if session == nil || channelID == "" {
		return
	}

	var color int
	switch level {
	case "INFO":
		color = ColorInfo
	case "WARN":
		color = ColorWarn
	case "ERROR":
		color = ColorError
	default:
		color = ColorInfo
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", level),
		Color:     color,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Operation",
				Value:  operation,
				Inline: true,
			},
			{
				Name:  "Details",
				Value: truncate(details, 1024),
			},
		},
	}

	if _, err := session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		log.Printf("Error sending log message to Discord: %v", err)
	}
}

// Embed field values are capped by Discord. The cut never splits a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// Info logs an informational message.
func Info(module, operation, details string) {
	Log("INFO", module, operation, details)
}

// Warn logs a warning message.
func Warn(module, operation, details string) {
	Log("WARN", module, operation, details)
}

// Error logs an error message.
func Error(module, operation, details string) {
	Log("ERROR", module, operation, details)
}
