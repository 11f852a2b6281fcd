package database

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"internship-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *PostingStore {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "nested", "postings.db"))
	require.NoError(t, err)
	store := NewPostingStore(db)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func posting(messageID, channelID string, expires time.Time) models.Posting {
	return models.Posting{
		MessageID:      messageID,
		GuildID:        "guild-1",
		ChannelID:      channelID,
		Title:          "Intern " + messageID,
		ContactEmail:   messageID + "@example.com",
		ExpirationDate: expires,
		FormID:         "form-" + messageID,
		FormEditToken:  "token-" + messageID,
	}
}

func messageIDs(due []models.DuePosting) []string {
	ids := make([]string, 0, len(due))
	for _, d := range due {
		ids = append(ids, d.MessageID)
	}
	sort.Strings(ids)
	return ids
}

func TestInitDBIsRerunnable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.db")

	db, err := InitDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = InitDB(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := RunMigrations(db)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestAddAndGetPosting(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := posting("100", "chan-a", date(2026, 10, 17))
	require.NoError(t, store.AddPosting(ctx, p))

	got, err := store.GetPosting(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.ContactEmail, got.ContactEmail)
	assert.Equal(t, p.FormID, got.FormID)
	assert.Equal(t, p.FormEditToken, got.FormEditToken)
	assert.Equal(t, "chan-a", got.ChannelID)
	assert.True(t, got.ExpirationDate.Equal(date(2026, 10, 17)))
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAddPostingRejectsDuplicateMessage(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddPosting(ctx, posting("100", "chan-a", date(2026, 10, 17))))
	err := store.AddPosting(ctx, posting("100", "chan-a", date(2026, 10, 20)))
	assert.ErrorIs(t, err, models.ErrPostingExists)
}

func TestGetPostingNotFound(t *testing.T) {
	_, err := newTestStore(t).GetPosting(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrPostingNotFound)
}

func TestDeleteDueUsesDayGranularity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddPosting(ctx, posting("past", "chan-a", date(2026, 10, 1))))
	require.NoError(t, store.AddPosting(ctx, posting("today", "chan-a", date(2026, 10, 15))))
	require.NoError(t, store.AddPosting(ctx, posting("tomorrow", "chan-b", date(2026, 10, 16))))

	due, err := store.DeleteDue(ctx, date(2026, 10, 15))
	require.NoError(t, err)
	assert.Equal(t, []string{"past", "today"}, messageIDs(due))
	for _, d := range due {
		assert.Equal(t, "chan-a", d.ChannelID)
		assert.Equal(t, "form-"+d.MessageID, d.FormID)
	}

	_, err = store.GetPosting(ctx, "today")
	assert.ErrorIs(t, err, models.ErrPostingNotFound)

	remaining, err := store.GetPosting(ctx, "tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "chan-b", remaining.ChannelID)
}

func TestDeleteDueNeverReturnsAPostingTwice(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddPosting(ctx, posting("1", "chan-a", date(2026, 10, 15))))

	first, err := store.DeleteDue(ctx, date(2026, 10, 15))
	require.NoError(t, err)
	second, err := store.DeleteDue(ctx, date(2026, 10, 15))
	require.NoError(t, err)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestListPostingsOrdersByExpiration(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.AddPosting(ctx, posting("late", "chan-a", date(2026, 12, 1))))
	require.NoError(t, store.AddPosting(ctx, posting("soon", "chan-a", date(2026, 11, 1))))
	other := posting("elsewhere", "chan-z", date(2026, 11, 2))
	other.GuildID = "guild-2"
	require.NoError(t, store.AddPosting(ctx, other))

	postings, err := store.ListPostings(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "soon", postings[0].MessageID)
	assert.Equal(t, "late", postings[1].MessageID)
}

func TestTrustedChannel(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.GetTrustedChannel(ctx, "guild-1")
	assert.ErrorIs(t, err, models.ErrChannelNotConfigured)

	require.NoError(t, store.SetTrustedChannel(ctx, "guild-1", "chan-a"))
	channelID, err := store.GetTrustedChannel(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "chan-a", channelID)

	require.NoError(t, store.SetTrustedChannel(ctx, "guild-1", "chan-b"))
	channelID, err = store.GetTrustedChannel(ctx, "guild-1")
	require.NoError(t, err)
	assert.Equal(t, "chan-b", channelID)
}
