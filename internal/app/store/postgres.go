/*
Package store defines the on-the-wire chat record types and the contracts for
reading and writing them against the shared remote store.

This file provides the PostgreSQL-backed implementations. Server timestamps
come from the database clock (now()), never from the client; the bigserial id
is the insertion-order tiebreak for identical timestamps. Table names are
injected from configuration and sanitized once at construction.
*/
package store

import (
	"context"
	"fmt"

	"emberchat/internal/app/db"
	"emberchat/internal/pkg/logx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Messages is the PostgreSQL implementation of MessageStore.
type Messages struct {
	pool   *pgxpool.Pool
	table  string
	logger zerolog.Logger
}

// NewMessages creates a message store backed by the given pool and table.
func NewMessages(pool *pgxpool.Pool, table string) *Messages {
	return &Messages{
		pool:   pool,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logx.Logger().With().Str("component", "message_store").Logger(),
	}
}

// Append inserts a new message row. Identity and created_at are assigned by
// the database; no read-back is performed, so the caller never waits for the
// timestamp to resolve.
func (m *Messages) Append(ctx context.Context, msg Message) error {
	if err := CheckText(msg.Text); err != nil {
		return err
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, display_name, avatar, body) VALUES ($1, $2, $3, $4)`,
		m.table,
	)

	_, err := m.pool.Exec(ctx, query, msg.UserID, msg.DisplayName, msg.Avatar, msg.Text)
	if err != nil {
		if db.IsUndefinedTable(err) {
			return fmt.Errorf("messages table %s does not exist (check MESSAGES_TABLE and migrations): %w", m.table, err)
		}
		return fmt.Errorf("failed to append message: %w", err)
	}

	m.logger.Debug().
		Str("user_id", msg.UserID).
		Int("text_len", len(msg.Text)).
		Msg("Message appended.")

	return nil
}

// List returns all messages ordered by server timestamp, then insertion id.
// Rows without a resolved timestamp are filtered out so an uncommitted write
// never flashes at the wrong position.
func (m *Messages) List(ctx context.Context) ([]Message, error) {
	query := fmt.Sprintf(
		`SELECT id, user_id, display_name, avatar, body, created_at
		 FROM %s
		 WHERE created_at IS NOT NULL
		 ORDER BY created_at ASC, id ASC`,
		m.table,
	)

	rows, err := m.pool.Query(ctx, query)
	if err != nil {
		if db.IsUndefinedTable(err) {
			return nil, fmt.Errorf("messages table %s does not exist (check MESSAGES_TABLE and migrations): %w", m.table, err)
		}
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.UserID, &msg.DisplayName, &msg.Avatar, &msg.Text, &msg.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading message rows: %w", err)
	}

	return messages, nil
}

// Profiles is the PostgreSQL implementation of ProfileStore.
type Profiles struct {
	pool   *pgxpool.Pool
	table  string
	logger zerolog.Logger
}

// NewProfiles creates a profile store backed by the given pool and table.
func NewProfiles(pool *pgxpool.Pool, table string) *Profiles {
	return &Profiles{
		pool:   pool,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logx.Logger().With().Str("component", "profile_store").Logger(),
	}
}

// Upsert writes the profile keyed by user_id with merge semantics.
// joined_at is assigned by the database default on first insert only, so
// re-joining updates the display name and avatar without resetting it.
func (p *Profiles) Upsert(ctx context.Context, profile Profile) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, display_name, avatar) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET display_name = EXCLUDED.display_name, avatar = EXCLUDED.avatar`,
		p.table,
	)

	_, err := p.pool.Exec(ctx, query, profile.UserID, profile.DisplayName, profile.Avatar)
	if err != nil {
		if db.IsUndefinedTable(err) {
			return fmt.Errorf("users table %s does not exist (check USERS_TABLE and migrations): %w", p.table, err)
		}
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	p.logger.Debug().
		Str("user_id", profile.UserID).
		Str("display_name", profile.DisplayName).
		Msg("Profile upserted.")

	return nil
}

// List returns every known profile ordered by join time.
func (p *Profiles) List(ctx context.Context) ([]Profile, error) {
	query := fmt.Sprintf(
		`SELECT user_id, display_name, avatar, joined_at FROM %s ORDER BY joined_at ASC, user_id ASC`,
		p.table,
	)

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		if db.IsUndefinedTable(err) {
			return nil, fmt.Errorf("users table %s does not exist (check USERS_TABLE and migrations): %w", p.table, err)
		}
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.UserID, &profile.DisplayName, &profile.Avatar, &profile.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading profile rows: %w", err)
	}

	return profiles, nil
}
