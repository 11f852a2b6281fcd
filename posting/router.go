package posting

import (
	"context"
	"errors"
	"strings"

	"internship-bot/models"
)

// Kind is what the router decided an inbound message is.
type Kind int

const (
	KindIgnored Kind = iota
	KindCommand
	KindTrustedEvent
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindTrustedEvent:
		return "trusted-event"
	default:
		return "ignored"
	}
}

// Classify decides how msg is handled. Messages the bot wrote itself are
// always ignored; a command prefix wins over the trusted-author check.
func Classify(msg models.InboundMessage, selfID, prefix, trustedAuthor string) Kind {
	switch {
	case msg.AuthorID == selfID:
		return KindIgnored
	case prefix != "" && strings.HasPrefix(msg.Content, prefix):
		return KindCommand
	case trustedAuthor != "" && msg.AuthorName == trustedAuthor:
		return KindTrustedEvent
	default:
		return KindIgnored
	}
}

// CommandProcessor handles prefixed text commands.
type CommandProcessor interface {
	Process(ctx context.Context, msg models.InboundMessage) error
}

// Ingester turns a trusted message into a posting.
type Ingester interface {
	Ingest(ctx context.Context, msg models.InboundMessage) (*models.Posting, error)
}

// ChannelLookup resolves a guild's posting channel.
type ChannelLookup interface {
	GetTrustedChannel(ctx context.Context, guildID string) (string, error)
}

// Router dispatches inbound messages to commands or ingestion.
type Router struct {
	Prefix        string
	TrustedAuthor string

	channels ChannelLookup
	ingester Ingester
	commands CommandProcessor
}

// NewRouter creates a Router.
func NewRouter(prefix, trustedAuthor string, channels ChannelLookup, ingester Ingester, commands CommandProcessor) *Router {
	return &Router{
		Prefix:        prefix,
		TrustedAuthor: trustedAuthor,
		channels:      channels,
		ingester:      ingester,
		commands:      commands,
	}
}

// Route handles msg as seen by the bot user selfID and reports how it was classified.
// Trusted messages outside the guild's posting channel, or in a guild without
// one, are dropped without error.
func (r *Router) Route(ctx context.Context, selfID string, msg models.InboundMessage) (Kind, error) {
	kind := Classify(msg, selfID, r.Prefix, r.TrustedAuthor)
	switch kind {
	case KindCommand:
		return kind, r.commands.Process(ctx, msg)
	case KindTrustedEvent:
		channelID, err := r.channels.GetTrustedChannel(ctx, msg.GuildID)
		if err != nil {
			if errors.Is(err, models.ErrChannelNotConfigured) {
				return KindIgnored, nil
			}
			return kind, err
		}
		if channelID != msg.ChannelID {
			return KindIgnored, nil
		}
		_, err = r.ingester.Ingest(ctx, msg)
		return kind, err
	default:
		return kind, nil
	}
}
