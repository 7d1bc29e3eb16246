package message

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no message matches the identifier.
var ErrNotFound = errors.New("message not found")

// Stats is the aggregate report served to moderators and admins.
type Stats struct {
	TotalMessages          int64   `json:"totalMessages"`
	TotalReactions         int64   `json:"totalReactions"`
	AvgReactionsPerMessage float64 `json:"avgReactionsPerMessage"`
	MessagesWithReactions  int64   `json:"messagesWithReactions"`
}

// Store is the persistence contract for messages. GetByID includes
// soft-deleted rows so ownership can still be checked; ListPage and Search
// exclude them.
type Store interface {
	// Insert persists a new message.
	Insert(ctx context.Context, m *Message) error

	// GetByID returns the hydrated message, soft-deleted included.
	GetByID(ctx context.Context, id string) (*Message, error)

	// ListPage returns up to limit non-deleted messages, newest first.
	ListPage(ctx context.Context, limit, offset int) ([]Message, error)

	// Search returns non-deleted messages whose content contains q
	// case-insensitively, newest first, optionally scoped to one user.
	Search(ctx context.Context, q, userID string, limit int) ([]Message, error)

	// UpdateContent replaces content and derived mentions and marks the
	// message edited.
	UpdateContent(ctx context.Context, id, content string, mentions []string, editedAt time.Time) error

	// MarkDeleted sets the soft-delete flag and timestamp.
	MarkDeleted(ctx context.Context, id string, deletedAt time.Time) error

	// UpsertReaction adds the reaction, replacing any existing reaction from
	// the same user on the same message.
	UpsertReaction(ctx context.Context, messageID string, r Reaction) error

	// DeleteReaction removes the user's reaction if present.
	DeleteReaction(ctx context.Context, messageID, userID string) error

	// Stats computes the aggregate counters over non-deleted messages.
	Stats(ctx context.Context) (*Stats, error)
}
