package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"internship-bot/models"
	"internship-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Discord rejects message content longer than this.
const maxMessageLength = 2000

// CommandStore is the storage the commands read and write.
type CommandStore interface {
	SetTrustedChannel(ctx context.Context, guildID, channelID string) error
	ListPostings(ctx context.Context, guildID string) ([]models.Posting, error)
}

// SweepStatus reports sweep progress.
type SweepStatus interface {
	LastSwept() time.Time
}

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var commandPermissions = map[string]string{
	"ping":       utils.LevelGuest,
	"setchannel": utils.LevelAdmin,
	"postings":   utils.LevelGuest,
	"status":     utils.LevelGuest,
}

// invocation is who ran a command, and where.
type invocation struct {
	GuildID   string
	ChannelID string
	UserID    string
	Roles     []string
}

// Commands implements both the prefixed text commands and the slash commands.
type Commands struct {
	store   CommandStore
	sweeper SweepStatus
	auth    *utils.Auth
	sender  messageSender
	prefix  string
}

// NewCommands creates the command processor.
func NewCommands(store CommandStore, sweeper SweepStatus, auth *utils.Auth, sender messageSender, prefix string) *Commands {
	return &Commands{
		store:   store,
		sweeper: sweeper,
		auth:    auth,
		sender:  sender,
		prefix:  prefix,
	}
}

// Process runs a prefixed text command and replies in the same channel.
// Unknown commands are ignored.
func (c *Commands) Process(ctx context.Context, msg models.InboundMessage) error {
	fields := strings.Fields(strings.TrimPrefix(msg.Content, c.prefix))
	if len(fields) == 0 {
		return nil
	}

	reply, ok := c.run(ctx, strings.ToLower(fields[0]), invocation{
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
		UserID:    msg.AuthorID,
		Roles:     msg.AuthorRoles,
	})
	if !ok {
		return nil
	}

	if _, err := c.sender.ChannelMessageSend(msg.ChannelID, reply); err != nil {
		return fmt.Errorf("reply to command in channel %s: %w", msg.ChannelID, err)
	}
	return nil
}

// Dispatch runs a slash command and responds ephemerally.
func (c *Commands) Dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	inv := invocation{GuildID: i.GuildID, ChannelID: i.ChannelID}
	if i.Member != nil && i.Member.User != nil {
		inv.UserID = i.Member.User.ID
		inv.Roles = i.Member.Roles
	} else if i.User != nil {
		inv.UserID = i.User.ID
	}

	reply, ok := c.run(context.Background(), i.ApplicationCommandData().Name, inv)
	if !ok {
		reply = "🚫 Unknown command."
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: reply,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

// run executes a command and returns the reply text; ok is false for unknown commands.
func (c *Commands) run(ctx context.Context, name string, inv invocation) (reply string, ok bool) {
	requiredLevel, ok := commandPermissions[name]
	if !ok {
		return "", false
	}
	if !c.auth.CheckPermission(inv.UserID, inv.Roles, requiredLevel) {
		return "🚫 You do not have permission to run this command.", true
	}

	switch name {
	case "ping":
		return "Pong!", true
	case "setchannel":
		return c.setChannel(ctx, inv), true
	case "postings":
		return c.listPostings(ctx, inv), true
	case "status":
		return fmt.Sprintf("Last cleanup of expired postings: %s", models.FormatDate(c.sweeper.LastSwept())), true
	}
	return "", false
}

func (c *Commands) setChannel(ctx context.Context, inv invocation) string {
	if inv.GuildID == "" {
		return "This command only works in a server."
	}
	if err := c.store.SetTrustedChannel(ctx, inv.GuildID, inv.ChannelID); err != nil {
		utils.Error("Commands", "SetChannel", fmt.Sprintf("guild %s: %v", inv.GuildID, err))
		return "Failed to update the postings channel."
	}
	utils.Info("Commands", "SetChannel", fmt.Sprintf("guild %s now receives postings in channel %s", inv.GuildID, inv.ChannelID))
	return fmt.Sprintf("Internship postings will now be tracked in <#%s>.", inv.ChannelID)
}

func (c *Commands) listPostings(ctx context.Context, inv invocation) string {
	if inv.GuildID == "" {
		return "This command only works in a server."
	}
	postings, err := c.store.ListPostings(ctx, inv.GuildID)
	if err != nil {
		utils.Error("Commands", "ListPostings", fmt.Sprintf("guild %s: %v", inv.GuildID, err))
		return "Failed to load postings."
	}
	if len(postings) == 0 {
		return "No active postings."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%d active postings**", len(postings))
	for n, p := range postings {
		line := fmt.Sprintf("\n• %s (%s), expires %s", p.Title, p.ContactEmail, models.FormatDate(p.ExpirationDate))
		if b.Len()+len(line) > maxMessageLength-32 {
			fmt.Fprintf(&b, "\n… and %d more", len(postings)-n)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
