package bot

import (
	"fmt"
	"log"

	"internship-bot/utils"

	"github.com/robfig/cron/v3"
)

// startScheduler runs the expiration sweep on the configured schedule.
func (b *Bot) startScheduler() error {
	log.Println("Initializing scheduler...")
	b.cron = cron.New(
		cron.WithLocation(b.Clock.Now().Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := b.cron.AddFunc(b.Config.Bot.SweepSchedule, b.runSweep); err != nil {
		return fmt.Errorf("could not schedule sweep %q: %w", b.Config.Bot.SweepSchedule, err)
	}
	b.cron.Start()
	log.Printf("Sweep scheduled with %q.", b.Config.Bot.SweepSchedule)

	// Sweep once on startup so a restart catches up on a missed day.
	b.sweeps.Add(1)
	go func() {
		defer b.sweeps.Done()
		b.runSweep()
	}()
	return nil
}

func (b *Bot) runSweep() {
	if err := b.Sweeper.Tick(b.ctx); err != nil {
		utils.Error("Sweeper", "Tick", err.Error())
	}
}

// stopScheduler stops scheduling sweeps and waits for running ones to finish
// before cancelling the bot context. Claimed postings have no record left, so
// their teardown must not see a cancelled context.
func (b *Bot) stopScheduler() {
	if b.cron != nil {
		<-b.cron.Stop().Done()
	}
	b.sweeps.Wait()
	b.cancel()
	log.Println("Scheduler stopped.")
}
