package handlers

import (
	"log"

	"internship-bot/bot"
	"internship-bot/posting"
	"internship-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	chat := posting.SessionChat{Session: b.Session}
	cmds := NewCommands(b.Store, b.Sweeper, utils.NewAuth(b.Config.Commands), b.Session, b.Config.Bot.Prefix)
	ingestor := posting.NewIngestor(b.Store, b.Forms, chat, b.Clock)
	router := posting.NewRouter(b.Config.Bot.Prefix, b.Config.Bot.TrustedAuthor, b.Store, ingestor, cmds)

	b.Session.AddHandler(MessageCreate(router))
	b.Session.AddHandler(InteractionCreate(cmds))

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
}
