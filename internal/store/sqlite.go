package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/iboite/internal/model"
)

// SQLiteCache implements ConversationCache using a local SQLite database.
type SQLiteCache struct {
	db *sqlx.DB
}

// NewSQLiteCache opens (or creates) a SQLite database at dbPath,
// enables WAL mode for file databases, and runs any pending schema
// migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if !isMemoryPath(dbPath) {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	s := &SQLiteCache{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func isMemoryPath(p string) bool {
	return p == ":memory:" || strings.Contains(p, "mode=memory")
}

// Close closes the underlying database connection.
func (s *SQLiteCache) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteCache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

type conversationRow struct {
	ID           string    `db:"id"`
	Archived     bool      `db:"archived"`
	Position     int       `db:"position"`
	Subject      string    `db:"subject"`
	Participants string    `db:"participants"`
	UnreadCount  int       `db:"unread_count"`
	LastMessage  string    `db:"last_message"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type messageRow struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	Position       int       `db:"position"`
	Author         string    `db:"author"`
	Body           string    `db:"body"`
	Attachments    string    `db:"attachments"`
	SentAt         time.Time `db:"sent_at"`
}

// SaveConversations replaces the cached list for the archived filter,
// keeping the order of convs.
func (s *SQLiteCache) SaveConversations(
	ctx context.Context,
	archived bool,
	convs []model.Conversation,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM conversations WHERE archived = ?", boolToInt(archived),
	); err != nil {
		return fmt.Errorf("clearing cached conversations: %w", err)
	}

	const query = `
		INSERT OR REPLACE INTO conversations (
			id, archived, position, subject, participants,
			unread_count, last_message, updated_at, cached_at
		) VALUES (
			:id, :archived, :position, :subject, :participants,
			:unread_count, :last_message, :updated_at, :cached_at
		)`

	now := time.Now().UTC()
	for i, c := range convs {
		participants, err := json.Marshal(c.Participants)
		if err != nil {
			return fmt.Errorf("marshaling participants for %s: %w", c.ID, err)
		}
		lastMessage := ""
		if c.LastMessage != nil {
			raw, err := json.Marshal(c.LastMessage)
			if err != nil {
				return fmt.Errorf("marshaling last message for %s: %w", c.ID, err)
			}
			lastMessage = string(raw)
		}

		_, err = tx.NamedExecContext(ctx, query, map[string]any{
			"id":           c.ID,
			"archived":     boolToInt(archived),
			"position":     i,
			"subject":      c.Subject,
			"participants": string(participants),
			"unread_count": c.UnreadCount,
			"last_message": lastMessage,
			"updated_at":   c.UpdatedAt.UTC(),
			"cached_at":    now,
		})
		if err != nil {
			return fmt.Errorf("caching conversation %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// LoadConversations returns the cached list for the archived filter.
func (s *SQLiteCache) LoadConversations(
	ctx context.Context,
	archived bool,
) ([]model.Conversation, error) {
	var rows []conversationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, archived, position, subject, participants,
		       unread_count, last_message, updated_at
		FROM conversations WHERE archived = ? ORDER BY position`,
		boolToInt(archived),
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached conversations: %w", err)
	}

	convs := make([]model.Conversation, 0, len(rows))
	for _, r := range rows {
		c := model.Conversation{
			ID:          r.ID,
			Subject:     r.Subject,
			UnreadCount: r.UnreadCount,
			UpdatedAt:   r.UpdatedAt,
			Archived:    r.Archived,
		}
		if err := json.Unmarshal([]byte(r.Participants), &c.Participants); err != nil {
			return nil, fmt.Errorf("unmarshaling participants of %s: %w", r.ID, err)
		}
		if r.LastMessage != "" {
			c.LastMessage = &model.MessageSummary{}
			if err := json.Unmarshal([]byte(r.LastMessage), c.LastMessage); err != nil {
				return nil, fmt.Errorf("unmarshaling last message of %s: %w", r.ID, err)
			}
		}
		convs = append(convs, c)
	}
	return convs, nil
}

// SaveMessages replaces the cached transcript of a conversation. msgs must
// already be in display order.
func (s *SQLiteCache) SaveMessages(
	ctx context.Context,
	conversationID string,
	msgs []model.Message,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM messages WHERE conversation_id = ?", conversationID,
	); err != nil {
		return fmt.Errorf("clearing cached messages: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO messages (
			id, conversation_id, position, author, body, attachments, sent_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, m := range msgs {
		author, err := json.Marshal(m.Author)
		if err != nil {
			return fmt.Errorf("marshaling author of %s: %w", m.ID, err)
		}
		attachments, err := json.Marshal(m.Attachments)
		if err != nil {
			return fmt.Errorf("marshaling attachments of %s: %w", m.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			m.ID, conversationID, i, string(author), m.Body,
			string(attachments), m.SentAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("caching message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// LoadMessages returns the cached transcript of a conversation.
func (s *SQLiteCache) LoadMessages(
	ctx context.Context,
	conversationID string,
) ([]model.Message, error) {
	var rows []messageRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, conversation_id, position, author, body, attachments, sent_at
		FROM messages WHERE conversation_id = ? ORDER BY position`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached messages: %w", err)
	}

	msgs := make([]model.Message, 0, len(rows))
	for _, r := range rows {
		m := model.Message{
			ID:             r.ID,
			ConversationID: r.ConversationID,
			Body:           r.Body,
			SentAt:         r.SentAt,
		}
		if err := json.Unmarshal([]byte(r.Author), &m.Author); err != nil {
			return nil, fmt.Errorf("unmarshaling author of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.Attachments), &m.Attachments); err != nil {
			return nil, fmt.Errorf("unmarshaling attachments of %s: %w", r.ID, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
