package command

import "github.com/bwmarrin/discordgo"

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}

// SetChannelCommand defines the structure for the /setchannel command.
type SetChannelCommand struct{}

// Definition returns the application command definition.
func (c *SetChannelCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "setchannel",
		Description: "Receive internship postings in this channel",
	}
}

// PostingsCommand defines the structure for the /postings command.
type PostingsCommand struct{}

// Definition returns the application command definition.
func (c *PostingsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "postings",
		Description: "List this server's active internship postings",
	}
}

// StatusCommand defines the structure for the /status command.
type StatusCommand struct{}

// Definition returns the application command definition.
func (c *StatusCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "status",
		Description: "Show when expired postings were last cleaned up",
	}
}
