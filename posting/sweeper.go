package posting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"internship-bot/models"
	"internship-bot/utils"
)

// Sweeper retires postings once their expiration date arrives. It sweeps at most
// once per calendar day; every tick in between is a no-op.
type Sweeper struct {
	store Store
	forms FormService
	chat  Chat
	clock Clock

	mu        sync.Mutex
	lastSwept time.Time
}

// NewSweeper creates a Sweeper whose cursor starts at yesterday, so the first
// tick after a restart always sweeps.
func NewSweeper(store Store, forms FormService, chat Chat, clock Clock) *Sweeper {
	return &Sweeper{
		store:     store,
		forms:     forms,
		chat:      chat,
		clock:     clock,
		lastSwept: models.DateOf(clock.Now()).AddDate(0, 0, -1),
	}
}

// LastSwept returns the last calendar day a sweep completed on.
func (s *Sweeper) LastSwept() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSwept
}

// channelMessages is the set of claimed messages living in one channel.
type channelMessages struct {
	ChannelID  string
	MessageIDs []string
}

// groupByChannel groups claimed postings by channel, keeping first-seen order.
func groupByChannel(due []models.DuePosting) []channelMessages {
	index := make(map[string]int)
	var groups []channelMessages
	for _, d := range due {
		i, ok := index[d.ChannelID]
		if !ok {
			i = len(groups)
			index[d.ChannelID] = i
			groups = append(groups, channelMessages{ChannelID: d.ChannelID})
		}
		groups[i].MessageIDs = append(groups[i].MessageIDs, d.MessageID)
	}
	return groups
}

// Tick runs one sweep if the calendar day changed since the last completed sweep.
//
// Claimed postings are already gone from storage when teardown starts, so a failed
// teardown leaves an orphaned form or message, never an orphaned record. When a
// teardown phase fails the cursor is not advanced and the error is returned; the
// next tick claims only postings that became due since.
func (s *Sweeper) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := models.DateOf(s.clock.Now())
	if today.Equal(s.lastSwept) {
		return nil
	}

	due, err := s.store.DeleteDue(ctx, today)
	if err != nil {
		return fmt.Errorf("claim postings due %s: %w", models.FormatDate(today), err)
	}

	var errs []error
	if err := s.closeForms(ctx, due); err != nil {
		errs = append(errs, err)
	}
	if err := s.deleteMessages(due); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.lastSwept = today
	if len(due) > 0 {
		utils.Info("Sweeper", "Sweep", fmt.Sprintf("Retired %d postings due %s", len(due), models.FormatDate(today)))
	} else {
		log.Printf("Sweep for %s found no postings due", models.FormatDate(today))
	}
	return nil
}

func (s *Sweeper) closeForms(ctx context.Context, due []models.DuePosting) error {
	if len(due) == 0 {
		return nil
	}

	formIDs := make([]string, 0, len(due))
	for _, d := range due {
		formIDs = append(formIDs, d.FormID)
	}

	if err := s.forms.CloseForms(ctx, formIDs); err != nil {
		utils.Error("Sweeper", "CloseForms", fmt.Sprintf("orphaned forms %s: %v", strings.Join(formIDs, ", "), err))
		return fmt.Errorf("close %d forms: %w", len(formIDs), err)
	}
	return nil
}

func (s *Sweeper) deleteMessages(due []models.DuePosting) error {
	var errs []error
	for _, group := range groupByChannel(due) {
		if _, err := s.chat.FetchChannel(group.ChannelID); err != nil {
			if errors.Is(err, models.ErrChannelUnresolvable) {
				log.Printf("Sweeper: channel %s is gone, skipping %d messages", group.ChannelID, len(group.MessageIDs))
				continue
			}
			utils.Error("Sweeper", "FetchChannel", fmt.Sprintf("orphaned messages %s in channel %s: %v",
				strings.Join(group.MessageIDs, ", "), group.ChannelID, err))
			errs = append(errs, err)
			continue
		}

		for _, messageID := range group.MessageIDs {
			if err := s.chat.DeleteMessage(group.ChannelID, messageID); err != nil {
				utils.Warn("Sweeper", "DeleteMessage", fmt.Sprintf("orphaned message %s in channel %s: %v", messageID, group.ChannelID, err))
				errs = append(errs, fmt.Errorf("delete message %s in channel %s: %w", messageID, group.ChannelID, err))
			}
		}
	}
	return errors.Join(errs...)
}
