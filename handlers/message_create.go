package handlers

import (
	"context"
	"errors"
	"fmt"

	"internship-bot/models"
	"internship-bot/posting"
	"internship-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// toInboundMessage converts a Discord message to the router's view of it.
func toInboundMessage(m *discordgo.Message) models.InboundMessage {
	msg := models.InboundMessage{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorName = m.Author.Username
	}
	if m.Member != nil {
		msg.AuthorRoles = m.Member.Roles
	}
	return msg
}

// MessageCreate will be called every time a new message is created on any channel that the authenticated bot has access to.
func MessageCreate(router *posting.Router) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || s.State == nil || s.State.User == nil {
			return
		}

		msg := toInboundMessage(m.Message)
		kind, err := router.Route(context.Background(), s.State.User.ID, msg)
		if err == nil {
			return
		}

		details := fmt.Sprintf("message %s in channel %s: %v", msg.ID, msg.ChannelID, err)
		switch {
		case errors.Is(err, models.ErrMalformedPayload), errors.Is(err, models.ErrFormCreationFailed):
			utils.Warn("Router", kind.String(), details)
		default:
			utils.Error("Router", kind.String(), details)
		}
	}
}
