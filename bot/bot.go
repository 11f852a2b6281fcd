package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"internship-bot/config"
	"internship-bot/database"
	"internship-bot/grpc"
	"internship-bot/models"
	"internship-bot/posting"
	"internship-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
)

// Bot encapsulates the bot's state.
type Bot struct {
	Session  *discordgo.Session
	Config   *models.Config
	Store    *database.PostingStore
	Forms    *grpc.FormClient
	Clock    posting.SystemClock
	Sweeper  *posting.Sweeper
	Commands []*discordgo.ApplicationCommand

	cron   *cron.Cron
	sweeps sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBot creates and initializes a new Bot instance.
func NewBot() (*Bot, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Bot.Location()
	if err != nil {
		return nil, err
	}

	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuilds | discordgo.IntentsMessageContent | discordgo.IntentsGuildMessageReactions

	db, err := database.InitDB(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	store := database.NewPostingStore(db)

	forms, err := grpc.NewFormClient(cfg.Forms.Address, cfg.Forms.Timeout)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("error connecting to form service: %w", err)
	}

	clock := posting.SystemClock{Location: loc}
	ctx, cancel := context.WithCancel(context.Background())

	return &Bot{
		Session: dg,
		Config:  cfg,
		Store:   store,
		Forms:   forms,
		Clock:   clock,
		Sweeper: posting.NewSweeper(store, forms, posting.SessionChat{Session: dg}, clock),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// RegisterCommands registers the provided slash command definitions.
func (b *Bot) RegisterCommands(commands []*discordgo.ApplicationCommand) {
	b.Commands = append(b.Commands, commands...)
}

// Start opens the bot's session and registers handlers.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	err := b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	utils.InitLogger(b.Session, b.Config.Bot.AdminChannelID)

	// Register slash commands
	for _, cmd := range b.Commands {
		_, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", cmd)
		if err != nil {
			log.Printf("Cannot create '%v' command: %v", cmd.Name, err)
		}
	}

	if err := b.startScheduler(); err != nil {
		b.Session.Close()
		return err
	}
	b.notifyOwner()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// notifyOwner sends the application owner a direct message once the bot is ready.
func (b *Bot) notifyOwner() {
	app, err := b.Session.Application("@me")
	if err != nil {
		log.Printf("Cannot fetch application info: %v", err)
		return
	}

	ownerID := ""
	switch {
	case app.Team != nil:
		ownerID = app.Team.OwnerID
	case app.Owner != nil:
		ownerID = app.Owner.ID
	}
	if ownerID == "" {
		return
	}

	dm, err := b.Session.UserChannelCreate(ownerID)
	if err != nil {
		log.Printf("Cannot open DM with owner %s: %v", ownerID, err)
		return
	}
	if _, err := b.Session.ChannelMessageSend(dm.ID, fmt.Sprintf("%s is ready.", b.Session.State.User.Username)); err != nil {
		log.Printf("Cannot notify owner %s: %v", ownerID, err)
	}
}

// Stop gracefully closes the bot's session.
func (b *Bot) Stop() {
	b.stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if err := b.Forms.Close(); err != nil {
		log.Printf("Error closing form service connection: %v", err)
	}
	if err := b.Store.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(registerHandlers func(*Bot), commands []*discordgo.ApplicationCommand) {
	bot, err := NewBot()
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	bot.RegisterCommands(commands)

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
