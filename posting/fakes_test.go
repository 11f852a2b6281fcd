package posting

import (
	"context"
	"fmt"
	"sync"
	"time"

	"internship-bot/models"

	"github.com/bwmarrin/discordgo"
)

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// memStore keeps postings in memory and counts calls.
type memStore struct {
	mu          sync.Mutex
	postings    map[string]models.Posting
	channels    map[string]string
	addErr      error
	deleteErr   error
	deleteCalls int
}

func newMemStore() *memStore {
	return &memStore{
		postings: make(map[string]models.Posting),
		channels: make(map[string]string),
	}
}

func (s *memStore) AddPosting(_ context.Context, p models.Posting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addErr != nil {
		return s.addErr
	}
	if _, ok := s.postings[p.MessageID]; ok {
		return models.ErrPostingExists
	}
	s.postings[p.MessageID] = p
	return nil
}

func (s *memStore) DeleteDue(_ context.Context, today time.Time) ([]models.DuePosting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	var due []models.DuePosting
	for id, p := range s.postings {
		if !p.ExpirationDate.After(today) {
			due = append(due, models.DuePosting{ChannelID: p.ChannelID, MessageID: p.MessageID, FormID: p.FormID})
			delete(s.postings, id)
		}
	}
	return due, nil
}

func (s *memStore) GetTrustedChannel(_ context.Context, guildID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.channels[guildID]
	if !ok {
		return "", models.ErrChannelNotConfigured
	}
	return ch, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.postings)
}

// fakeForms hands out sequential forms and records closes.
type fakeForms struct {
	mu        sync.Mutex
	next      int
	createErr error
	closeErr  error
	created   []string
	closed    [][]string
}

func (f *fakeForms) CreateForm(_ context.Context, title, _ string) (models.Form, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, title)
	if f.createErr != nil {
		return models.Form{}, f.createErr
	}
	f.next++
	return models.Form{ID: fmt.Sprintf("form-%d", f.next), EditToken: fmt.Sprintf("token-%d", f.next)}, nil
}

func (f *fakeForms) CloseForms(_ context.Context, formIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, append([]string(nil), formIDs...))
	return f.closeErr
}

func (f *fakeForms) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created) + len(f.closed)
}

type deletedMessage struct {
	ChannelID string
	MessageID string
}

// fakeChat records reactions, channel lookups and deletions.
type fakeChat struct {
	mu        sync.Mutex
	gone      map[string]bool
	fetchErr  map[string]error
	deleteErr map[string]error
	reactions []string
	fetched   []string
	deleted   []deletedMessage
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		gone:      make(map[string]bool),
		fetchErr:  make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (c *fakeChat) AddReaction(_, messageID, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions = append(c.reactions, messageID+" "+emoji)
	return nil
}

func (c *fakeChat) FetchChannel(channelID string) (*discordgo.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched = append(c.fetched, channelID)
	if c.gone[channelID] {
		return nil, fmt.Errorf("channel %s: %w", channelID, models.ErrChannelUnresolvable)
	}
	if err := c.fetchErr[channelID]; err != nil {
		return nil, err
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (c *fakeChat) DeleteMessage(channelID, messageID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, deletedMessage{ChannelID: channelID, MessageID: messageID})
	return c.deleteErr[messageID]
}

func (c *fakeChat) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.reactions) + len(c.fetched) + len(c.deleted)
}

// fakeCommands records processed commands.
type fakeCommands struct {
	processed []models.InboundMessage
}

func (f *fakeCommands) Process(_ context.Context, msg models.InboundMessage) error {
	f.processed = append(f.processed, msg)
	return nil
}
