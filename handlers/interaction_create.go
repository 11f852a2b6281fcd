package handlers

import (
	"github.com/bwmarrin/discordgo"
)

// InteractionCreate handles slash command interactions.
func InteractionCreate(cmds *Commands) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type == discordgo.InteractionApplicationCommand {
			cmds.Dispatch(s, i)
		}
	}
}
