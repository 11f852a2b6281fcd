package posting

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"internship-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Store is the durable record of postings.
type Store interface {
	// AddPosting persists a posting whose form already exists.
	AddPosting(ctx context.Context, p models.Posting) error

	// DeleteDue atomically removes and returns every posting expiring on or before today.
	DeleteDue(ctx context.Context, today time.Time) ([]models.DuePosting, error)

	// GetTrustedChannel returns the channel a guild receives postings in,
	// or ErrChannelNotConfigured.
	GetTrustedChannel(ctx context.Context, guildID string) (string, error)
}

// FormService creates and closes the external forms backing postings.
type FormService interface {
	CreateForm(ctx context.Context, title, email string) (models.Form, error)
	CloseForms(ctx context.Context, formIDs []string) error
}

// Chat is the slice of the chat platform the ingestor and sweeper touch.
type Chat interface {
	AddReaction(channelID, messageID, emoji string) error
	// FetchChannel returns ErrChannelUnresolvable when the channel is gone.
	FetchChannel(channelID string) (*discordgo.Channel, error)
	DeleteMessage(channelID, messageID string) error
}

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// SessionChat adapts a discordgo session to Chat.
type SessionChat struct {
	Session *discordgo.Session
}

func (c SessionChat) AddReaction(channelID, messageID, emoji string) error {
	return c.Session.MessageReactionAdd(channelID, messageID, emoji)
}

func (c SessionChat) FetchChannel(channelID string) (*discordgo.Channel, error) {
	if c.Session.State != nil {
		if ch, err := c.Session.State.Channel(channelID); err == nil {
			return ch, nil
		}
	}

	ch, err := c.Session.Channel(channelID)
	if err != nil {
		if isGone(err) {
			return nil, fmt.Errorf("channel %s: %w", channelID, models.ErrChannelUnresolvable)
		}
		return nil, fmt.Errorf("fetch channel %s: %w: %w", channelID, models.ErrServiceUnavailable, err)
	}
	return ch, nil
}

// DeleteMessage treats a message that is already gone as deleted.
func (c SessionChat) DeleteMessage(channelID, messageID string) error {
	err := c.Session.ChannelMessageDelete(channelID, messageID)
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage {
		return nil
	}
	return err
}

// isGone reports whether a REST error means the channel was deleted or hidden from the bot.
func isGone(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeMissingAccess:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
