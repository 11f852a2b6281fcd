package models

import "time"

// DateLayout is the storage format of calendar dates. Values in this layout
// order lexically the same way they order chronologically.
const DateLayout = "2006-01-02"

// Posting is one tracked internship announcement, backed by an external form
// and by the chat message it was created from.
type Posting struct {
	MessageID      string
	GuildID        string
	ChannelID      string
	Title          string
	ContactEmail   string
	ExpirationDate time.Time // calendar date, see DateOf
	FormID         string
	FormEditToken  string
	CreatedAt      time.Time
}

// DuePosting is what a sweep claims: enough to tear down the form and the message.
type DuePosting struct {
	ChannelID string `db:"channel_id"`
	MessageID string `db:"message_id"`
	FormID    string `db:"form_id"`
}

// Form identifies an external form and the token needed to close it.
type Form struct {
	ID        string
	EditToken string
}

// DateOf returns the calendar date of t, in t's own location, as midnight UTC.
// Two instants on the same local day always yield equal dates.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date in DateLayout.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// ParseDate parses a DateLayout string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
