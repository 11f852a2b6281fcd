package posting

import (
	"context"
	"errors"
	"testing"

	"internship-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIngester records what reached ingestion.
type fakeIngester struct {
	ingested []string
	err      error
}

func (f *fakeIngester) Ingest(_ context.Context, msg models.InboundMessage) (*models.Posting, error) {
	f.ingested = append(f.ingested, msg.ID)
	return &models.Posting{MessageID: msg.ID}, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		msg  models.InboundMessage
		want Kind
	}{
		{"self authored command", models.InboundMessage{AuthorID: "bot", Content: "!ping"}, KindIgnored},
		{"self authored as trusted name", models.InboundMessage{AuthorID: "bot", AuthorName: "Zapier"}, KindIgnored},
		{"command", models.InboundMessage{AuthorID: "u", Content: "!ping"}, KindCommand},
		{"trusted author sending command", models.InboundMessage{AuthorID: "z", AuthorName: "Zapier", Content: "!ping"}, KindCommand},
		{"trusted event", models.InboundMessage{AuthorID: "z", AuthorName: "Zapier", Content: "a\nb\n1/1/2027"}, KindTrustedEvent},
		{"name must match exactly", models.InboundMessage{AuthorID: "z", AuthorName: "zapier"}, KindIgnored},
		{"chatter", models.InboundMessage{AuthorID: "u", AuthorName: "alice", Content: "hello"}, KindIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.msg, "bot", "!", "Zapier"))
		})
	}
}

func TestClassifyWithoutPrefix(t *testing.T) {
	msg := models.InboundMessage{AuthorID: "u", Content: "!ping"}
	assert.Equal(t, KindIgnored, Classify(msg, "bot", "", "Zapier"))
}

func newTestRouter() (*Router, *memStore, *fakeIngester, *fakeCommands) {
	store := newMemStore()
	store.channels["guild-1"] = "chan-a"
	ingester := &fakeIngester{}
	commands := &fakeCommands{}
	return NewRouter("!", "Zapier", store, ingester, commands), store, ingester, commands
}

func TestRouteTrustedMessageInPostingChannel(t *testing.T) {
	router, _, ingester, commands := newTestRouter()

	kind, err := router.Route(context.Background(), "bot", trustedMessage("m1", "a\nb\n1/1/2027"))
	require.NoError(t, err)
	assert.Equal(t, KindTrustedEvent, kind)
	assert.Equal(t, []string{"m1"}, ingester.ingested)
	assert.Empty(t, commands.processed)
}

func TestRouteDropsTrustedMessageElsewhere(t *testing.T) {
	router, _, ingester, _ := newTestRouter()

	wrongChannel := trustedMessage("m1", "a\nb\n1/1/2027")
	wrongChannel.ChannelID = "chan-other"
	kind, err := router.Route(context.Background(), "bot", wrongChannel)
	require.NoError(t, err)
	assert.Equal(t, KindIgnored, kind)

	unconfigured := trustedMessage("m2", "a\nb\n1/1/2027")
	unconfigured.GuildID = "guild-2"
	kind, err = router.Route(context.Background(), "bot", unconfigured)
	require.NoError(t, err)
	assert.Equal(t, KindIgnored, kind)

	assert.Empty(t, ingester.ingested)
}

func TestRouteCommand(t *testing.T) {
	router, _, ingester, commands := newTestRouter()

	msg := models.InboundMessage{ID: "m1", AuthorID: "u", Content: "!postings"}
	kind, err := router.Route(context.Background(), "bot", msg)
	require.NoError(t, err)
	assert.Equal(t, KindCommand, kind)
	assert.Equal(t, []models.InboundMessage{msg}, commands.processed)
	assert.Empty(t, ingester.ingested)
}

func TestRouteReturnsIngestError(t *testing.T) {
	router, _, ingester, _ := newTestRouter()
	ingester.err = models.ErrMalformedPayload

	_, err := router.Route(context.Background(), "bot", trustedMessage("m1", "bad"))
	assert.True(t, errors.Is(err, models.ErrMalformedPayload))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "command", KindCommand.String())
	assert.Equal(t, "trusted-event", KindTrustedEvent.String())
	assert.Equal(t, "ignored", KindIgnored.String())
}
