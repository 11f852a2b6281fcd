package models

import "errors"

var (
	// ErrMalformedPayload is returned when a trusted message body is not three
	// lines of title, contact email and a month/day/year date.
	ErrMalformedPayload = errors.New("malformed posting payload")

	// ErrFormCreationFailed is returned when the form service answers without
	// both a form id and an edit token.
	ErrFormCreationFailed = errors.New("form creation failed")

	// ErrChannelUnresolvable marks a channel that no longer exists or is no longer visible.
	ErrChannelUnresolvable = errors.New("channel unresolvable")

	// ErrServiceUnavailable wraps transport failures talking to an external service.
	ErrServiceUnavailable = errors.New("external service unavailable")

	ErrPostingNotFound      = errors.New("posting not found")
	ErrPostingExists        = errors.New("posting already exists")
	ErrChannelNotConfigured = errors.New("no posting channel configured for guild")
)
