package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store over a pgx connection pool. Sender name and avatar
// are hydrated by joining the users table; reactions are aggregated to JSON
// inside the query so a page costs one round trip.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a PGStore backed by the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const messageSelect = `
	SELECT m.id, m.user_id, u.name, u.avatar_url, m.content, m.kind,
	       m.attachments, m.edited, m.edited_at, m.deleted, m.deleted_at,
	       COALESCE(m.reply_to::text, ''), m.mentions,
	       COALESCE(m.recipient_id::text, ''), m.created_at,
	       COALESCE((
	           SELECT json_agg(json_build_object(
	               'userId', r.user_id,
	               'emoji', r.emoji,
	               'createdAt', r.created_at
	           ) ORDER BY r.created_at)
	           FROM reactions r WHERE r.message_id = m.id
	       ), '[]'::json)
	FROM messages m
	JOIN users u ON u.id = m.user_id`

func scanMessage(row pgx.Row) (*Message, error) {
	var (
		m              Message
		attachmentsRaw []byte
		reactionsRaw   []byte
	)

	err := row.Scan(
		&m.ID, &m.UserID, &m.SenderName, &m.SenderAvatar, &m.Content, &m.Kind,
		&attachmentsRaw, &m.Edited, &m.EditedAt, &m.Deleted, &m.DeletedAt,
		&m.ReplyTo, &m.Mentions, &m.RecipientID, &m.CreatedAt, &reactionsRaw,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(attachmentsRaw, &m.Attachments); err != nil {
		return nil, fmt.Errorf("decode attachments for message %s: %w", m.ID, err)
	}
	if err := json.Unmarshal(reactionsRaw, &m.Reactions); err != nil {
		return nil, fmt.Errorf("decode reactions for message %s: %w", m.ID, err)
	}

	return &m, nil
}

func collectMessages(rows pgx.Rows) ([]Message, error) {
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}

	return messages, rows.Err()
}

// Insert persists a new message row.
func (s *PGStore) Insert(ctx context.Context, m *Message) error {
	attachments, err := json.Marshal(m.Attachments)
	if err != nil {
		return fmt.Errorf("encode attachments: %w", err)
	}

	var replyTo, recipientID any
	if m.ReplyTo != "" {
		replyTo = m.ReplyTo
	}
	if m.RecipientID != "" {
		recipientID = m.RecipientID
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO messages (id, user_id, content, kind, attachments, reply_to, mentions, recipient_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.UserID, m.Content, m.Kind, attachments, replyTo, m.Mentions, recipientID, m.CreatedAt)

	return err
}

// GetByID returns the hydrated message, soft-deleted rows included.
func (s *PGStore) GetByID(ctx context.Context, id string) (*Message, error) {
	row := s.pool.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, id)
	return scanMessage(row)
}

// ListPage returns non-deleted messages newest first. Private messages are
// addressed to one recipient and never appear in the shared history.
func (s *PGStore) ListPage(ctx context.Context, limit, offset int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, messageSelect+`
		WHERE NOT m.deleted AND m.kind <> 'private'
		ORDER BY m.created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}

	return collectMessages(rows)
}

// escapeLike makes q a literal for ILIKE matching.
func escapeLike(q string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(q)
}

// Search performs a case-insensitive substring match on content. Private
// messages are excluded, same as ListPage.
func (s *PGStore) Search(ctx context.Context, q, userID string, limit int) ([]Message, error) {
	rows, err := s.pool.Query(ctx, messageSelect+`
		WHERE NOT m.deleted AND m.kind <> 'private'
		  AND m.content ILIKE '%' || $1 || '%'
		  AND ($2 = '' OR m.user_id::text = $2)
		ORDER BY m.created_at DESC
		LIMIT $3`,
		escapeLike(q), userID, limit)
	if err != nil {
		return nil, err
	}

	return collectMessages(rows)
}

// UpdateContent replaces content and mentions and sets the edited flag.
func (s *PGStore) UpdateContent(ctx context.Context, id, content string, mentions []string, editedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages
		SET content = $2, mentions = $3, edited = true, edited_at = $4
		WHERE id = $1`,
		id, content, mentions, editedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkDeleted sets the soft-delete flag and timestamp.
func (s *PGStore) MarkDeleted(ctx context.Context, id string, deletedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE messages
		SET deleted = true, deleted_at = $2
		WHERE id = $1`,
		id, deletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertReaction relies on the UNIQUE(message_id, user_id) constraint to
// implement replace-on-add atomically.
func (s *PGStore) UpsertReaction(ctx context.Context, messageID string, r Reaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reactions (message_id, user_id, emoji, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (message_id, user_id)
		DO UPDATE SET emoji = EXCLUDED.emoji, created_at = EXCLUDED.created_at`,
		messageID, r.UserID, r.Emoji, r.CreatedAt)

	return err
}

// DeleteReaction removes the user's reaction; removing a reaction that does
// not exist is not an error.
func (s *PGStore) DeleteReaction(ctx context.Context, messageID, userID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM reactions
		WHERE message_id = $1 AND user_id = $2`,
		messageID, userID)

	return err
}

// Stats aggregates the moderation counters over non-deleted messages.
func (s *PGStore) Stats(ctx context.Context) (*Stats, error) {
	var st Stats

	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM messages WHERE NOT deleted),
			(SELECT COUNT(*) FROM reactions r JOIN messages m ON m.id = r.message_id WHERE NOT m.deleted),
			(SELECT COUNT(DISTINCT r.message_id) FROM reactions r JOIN messages m ON m.id = r.message_id WHERE NOT m.deleted)
	`).Scan(&st.TotalMessages, &st.TotalReactions, &st.MessagesWithReactions)
	if err != nil {
		return nil, err
	}

	if st.TotalMessages > 0 {
		st.AvgReactionsPerMessage = float64(st.TotalReactions) / float64(st.TotalMessages)
	}

	return &st, nil
}
