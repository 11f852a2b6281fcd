package models

// InboundMessage is the platform-neutral view of a chat message the router classifies.
type InboundMessage struct {
	ID          string
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorName  string
	AuthorRoles []string
	Content     string
}
