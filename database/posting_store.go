package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"internship-bot/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var postingColumns = []string{
	"message_id", "guild_id", "channel_id", "title", "contact_email",
	"expiration_date", "form_id", "form_edit_token", "created_at",
}

// postingRow mirrors the postings table; dates are kept as DateLayout text.
type postingRow struct {
	MessageID      string `db:"message_id"`
	GuildID        string `db:"guild_id"`
	ChannelID      string `db:"channel_id"`
	Title          string `db:"title"`
	ContactEmail   string `db:"contact_email"`
	ExpirationDate string `db:"expiration_date"`
	FormID         string `db:"form_id"`
	FormEditToken  string `db:"form_edit_token"`
	CreatedAt      int64  `db:"created_at"`
}

func (r postingRow) toModel() (models.Posting, error) {
	date, err := models.ParseDate(r.ExpirationDate)
	if err != nil {
		return models.Posting{}, fmt.Errorf("posting %s has invalid expiration date %q: %w", r.MessageID, r.ExpirationDate, err)
	}
	return models.Posting{
		MessageID:      r.MessageID,
		GuildID:        r.GuildID,
		ChannelID:      r.ChannelID,
		Title:          r.Title,
		ContactEmail:   r.ContactEmail,
		ExpirationDate: date,
		FormID:         r.FormID,
		FormEditToken:  r.FormEditToken,
		CreatedAt:      time.Unix(r.CreatedAt, 0),
	}, nil
}

// PostingStore persists postings and per-guild channel configuration.
type PostingStore struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// NewPostingStore wraps an initialised database.
func NewPostingStore(db *sqlx.DB) *PostingStore {
	return &PostingStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// Close closes the underlying database.
func (ps *PostingStore) Close() error {
	return ps.db.Close()
}

func (ps *PostingStore) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	return ps.db.ExecContext(ctx, query, args...)
}

// AddPosting stores a new posting. A second posting for the same message fails with ErrPostingExists.
func (ps *PostingStore) AddPosting(ctx context.Context, p models.Posting) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := ps.exec(ctx, ps.builder.Insert("postings").
		Columns(postingColumns...).
		Values(
			p.MessageID,
			p.GuildID,
			p.ChannelID,
			p.Title,
			p.ContactEmail,
			models.FormatDate(p.ExpirationDate),
			p.FormID,
			p.FormEditToken,
			createdAt.Unix(),
		))
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("message %s: %w", p.MessageID, models.ErrPostingExists)
		}
		return fmt.Errorf("failed to insert posting %s: %w", p.MessageID, err)
	}
	return nil
}

// DeleteDue removes every posting whose expiration date is on or before today and
// returns what was removed. The delete and the read happen in one statement, so a
// posting is handed to at most one caller.
func (ps *PostingStore) DeleteDue(ctx context.Context, today time.Time) ([]models.DuePosting, error) {
	query, args, err := ps.builder.Delete("postings").
		Where(sq.LtOrEq{"expiration_date": models.FormatDate(today)}).
		Suffix("RETURNING channel_id, message_id, form_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var due []models.DuePosting
	if err := ps.db.SelectContext(ctx, &due, query, args...); err != nil {
		return nil, fmt.Errorf("failed to delete postings due %s: %w", models.FormatDate(today), err)
	}
	return due, nil
}

// GetPosting looks a posting up by its source message.
func (ps *PostingStore) GetPosting(ctx context.Context, messageID string) (*models.Posting, error) {
	query, args, err := ps.builder.Select(postingColumns...).
		From("postings").
		Where(sq.Eq{"message_id": messageID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row postingRow
	if err := ps.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", messageID, models.ErrPostingNotFound)
		}
		return nil, fmt.Errorf("failed to query posting %s: %w", messageID, err)
	}

	p, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPostings returns a guild's postings, soonest expiration first.
func (ps *PostingStore) ListPostings(ctx context.Context, guildID string) ([]models.Posting, error) {
	query, args, err := ps.builder.Select(postingColumns...).
		From("postings").
		Where(sq.Eq{"guild_id": guildID}).
		OrderBy("expiration_date", "message_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []postingRow
	if err := ps.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list postings for guild %s: %w", guildID, err)
	}

	postings := make([]models.Posting, 0, len(rows))
	for _, row := range rows {
		p, err := row.toModel()
		if err != nil {
			return nil, err
		}
		postings = append(postings, p)
	}
	return postings, nil
}

// GetTrustedChannel returns the channel a guild receives postings in.
func (ps *PostingStore) GetTrustedChannel(ctx context.Context, guildID string) (string, error) {
	query, args, err := ps.builder.Select("channel_id").
		From("guild_channels").
		Where(sq.Eq{"guild_id": guildID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build query: %w", err)
	}

	var channelID string
	if err := ps.db.GetContext(ctx, &channelID, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("guild %s: %w", guildID, models.ErrChannelNotConfigured)
		}
		return "", fmt.Errorf("failed to query channel for guild %s: %w", guildID, err)
	}
	return channelID, nil
}

// SetTrustedChannel designates the channel a guild receives postings in, replacing any previous one.
func (ps *PostingStore) SetTrustedChannel(ctx context.Context, guildID, channelID string) error {
	_, err := ps.exec(ctx, ps.builder.Insert("guild_channels").
		Columns("guild_id", "channel_id").
		Values(guildID, channelID).
		Suffix("ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id"))
	if err != nil {
		return fmt.Errorf("failed to set channel for guild %s: %w", guildID, err)
	}
	return nil
}
