/*
Package message holds the chat message entity and every lifecycle operation on
it: send, edit, soft delete, reactions, listing, search, and aggregate stats.

The REST handlers and the WebSocket event handlers both go through Service,
so validation and authorization are enforced identically on both transports.
*/
package message

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
)

const (
	// MaxContentChars is the upper bound on message content length, counted
	// in runes after trimming.
	MaxContentChars = 1000

	// DefaultPageSize and MaxPageSize bound the list endpoint's limit param.
	DefaultPageSize = 50
	MaxPageSize     = 100

	// SearchLimit is the fixed result cap for content search.
	SearchLimit = 20
)

// Kind classifies a message.
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindFile    Kind = "file"
	KindSystem  Kind = "system"
	KindPrivate Kind = "private"
)

// Valid reports whether k is a known message kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindImage, KindFile, KindSystem, KindPrivate:
		return true
	}
	return false
}

// Reaction is a single user's emoji reaction to a message. A user holds at
// most one reaction per message; adding another replaces it.
type Reaction struct {
	UserID    string    `json:"userId"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is the core chat entity. UserID and CreatedAt are immutable after
// creation; CreatedAt is the primary ordering key. SenderName and
// SenderAvatar are denormalized from the users table on read.
type Message struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	SenderName   string       `json:"senderName"`
	SenderAvatar string       `json:"senderAvatar,omitempty"`
	Content      string       `json:"content"`
	Kind         Kind         `json:"kind"`
	Attachments  []Attachment `json:"attachments,omitempty"`
	Edited       bool         `json:"edited"`
	EditedAt     *time.Time   `json:"editedAt,omitempty"`
	Deleted      bool         `json:"deleted"`
	DeletedAt    *time.Time   `json:"deletedAt,omitempty"`
	Reactions    []Reaction   `json:"reactions"`
	ReplyTo      string       `json:"replyTo,omitempty"`
	Mentions     []string     `json:"mentions"`
	RecipientID  string       `json:"recipientId,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9_]+)`)

// ExtractMentions returns the deduplicated @-mention tokens in content, in
// order of first appearance, without the leading @. The result is never nil:
// mentions bind to a NOT NULL array column, so mention-free content yields an
// empty slice, not NULL.
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)

	seen := make(map[string]struct{}, len(matches))
	mentions := make([]string, 0, len(matches))

	for _, m := range matches {
		token := m[1]
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		mentions = append(mentions, token)
	}

	return mentions
}

// ValidateContent trims content and enforces the non-empty and length
// constraints. Violations are rejected, never truncated.
func ValidateContent(content string) (string, *errs.CustomError) {
	trimmed := strings.TrimSpace(content)

	if trimmed == "" {
		return "", errs.New(errs.ErrContentEmpty)
	}

	if utf8.RuneCountInString(trimmed) > MaxContentChars {
		return "", errs.New(errs.ErrContentTooLong, MaxContentChars)
	}

	return trimmed, nil
}

// CanMutate is the single authorization predicate for edit and delete: the
// message owner or an admin. Moderators may read stats but not touch other
// users' messages.
func CanMutate(m *Message, actor user.User) bool {
	return m.UserID == actor.ID || actor.Role == user.RoleAdmin
}
