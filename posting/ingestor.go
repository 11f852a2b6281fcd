package posting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"internship-bot/models"
	"internship-bot/utils"
)

const (
	// SuccessReaction marks a source message whose posting was created.
	SuccessReaction = "✅"

	// payloadDateLayout accepts month/day/year with or without zero padding.
	payloadDateLayout = "1/2/2006"
)

// Payload is the structured body of a trusted message.
type Payload struct {
	Title          string
	ContactEmail   string
	ExpirationDate time.Time
}

// ParsePayload reads title, contact email and expiration date from the first
// three lines of body. Lines after the third are ignored.
func ParsePayload(body string) (Payload, error) {
	lines := strings.Split(body, "\n")
	if len(lines) < 3 {
		return Payload{}, fmt.Errorf("%w: want 3 lines, got %d", models.ErrMalformedPayload, len(lines))
	}
	for i := range lines[:3] {
		lines[i] = strings.TrimSpace(lines[i])
	}

	date, err := time.Parse(payloadDateLayout, lines[2])
	if err != nil {
		return Payload{}, fmt.Errorf("%w: bad date %q: %v", models.ErrMalformedPayload, lines[2], err)
	}

	return Payload{
		Title:          lines[0],
		ContactEmail:   lines[1],
		ExpirationDate: models.DateOf(date),
	}, nil
}

// Ingestor turns trusted messages into postings.
type Ingestor struct {
	store Store
	forms FormService
	chat  Chat
	clock Clock
}

// NewIngestor creates an Ingestor.
func NewIngestor(store Store, forms FormService, chat Chat, clock Clock) *Ingestor {
	return &Ingestor{store: store, forms: forms, chat: chat, clock: clock}
}

// Ingest parses msg, creates its form, stores the posting and reacts to msg.
// On any failure before the record is stored, msg is left without a reaction.
func (in *Ingestor) Ingest(ctx context.Context, msg models.InboundMessage) (*models.Posting, error) {
	payload, err := ParsePayload(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	form, err := in.forms.CreateForm(ctx, payload.Title, payload.ContactEmail)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	p := models.Posting{
		MessageID:      msg.ID,
		GuildID:        msg.GuildID,
		ChannelID:      msg.ChannelID,
		Title:          payload.Title,
		ContactEmail:   payload.ContactEmail,
		ExpirationDate: payload.ExpirationDate,
		FormID:         form.ID,
		FormEditToken:  form.EditToken,
		CreatedAt:      in.clock.Now(),
	}
	if err := in.store.AddPosting(ctx, p); err != nil {
		// Nothing will ever sweep this form, so close it now.
		if closeErr := in.forms.CloseForms(ctx, []string{form.ID}); closeErr != nil {
			utils.Warn("Ingestor", "OrphanedForm", fmt.Sprintf("form %s for message %s: %v", form.ID, msg.ID, closeErr))
		}
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	if err := in.chat.AddReaction(msg.ChannelID, msg.ID, SuccessReaction); err != nil {
		return &p, fmt.Errorf("acknowledge message %s: %w", msg.ID, err)
	}
	return &p, nil
}
