/*
Package store defines the on-the-wire chat record types and the contracts for
reading and writing them against the shared remote store.

The remote store is the single source of truth: every render is a fresh
projection of store contents. Ordering is decided exclusively by the store's
server-assigned timestamp; ties fall back to the store's own insertion order,
which is stable but otherwise unspecified.
*/
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxMessageLength is the maximum accepted message body length in runes.
const MaxMessageLength = 2000

var (
	// ErrEmptyMessage rejects messages that are empty or whitespace-only after trimming.
	ErrEmptyMessage = errors.New("message text is empty")

	// ErrMessageTooLong rejects messages exceeding MaxMessageLength.
	ErrMessageTooLong = errors.New("message text exceeds maximum length")
)

// Message is one persisted chat message. Identity (ID) and Timestamp are
// assigned by the store at write-commit time; records are immutable afterwards.
// DisplayName and Avatar are denormalized from the sender's profile at send
// time, so reads never join against the profile collection.
type Message struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	Text        string    `json:"text"`
	Timestamp   time.Time `json:"timestamp"`
}

// Profile is the persisted record of a joined user, keyed by UserID.
// JoinedAt is assigned by the store on first join and preserved across re-joins.
type Profile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// MessageStore is the append-only writer plus ordered reader for messages.
type MessageStore interface {
	// Append persists a new message. The store assigns identity and server
	// timestamp; the caller does not wait for the timestamp to resolve.
	// Invalid text is rejected locally before any store interaction.
	Append(ctx context.Context, msg Message) error

	// List returns all messages in ascending server-timestamp order,
	// excluding records whose timestamp has not resolved yet.
	List(ctx context.Context) ([]Message, error)
}

// ProfileStore is the upsert writer plus reader for user profiles.
type ProfileStore interface {
	// Upsert creates or updates the profile keyed by UserID using merge
	// semantics: re-joining never duplicates a record or resets JoinedAt.
	Upsert(ctx context.Context, p Profile) error

	// List returns all known profiles.
	List(ctx context.Context) ([]Profile, error)
}

// CheckText validates a message body before any network call.
// It returns ErrEmptyMessage or ErrMessageTooLong on failure.
func CheckText(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if len([]rune(text)) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}
