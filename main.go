package main

import (
	"internship-bot/bot"
	"internship-bot/command"
	"internship-bot/handlers"
)

func main() {
	bot.Run(handlers.Register, command.GetCommandDefinitions())
}
