package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/logx"
)

// SendInput carries a validated-on-entry send request from either transport.
type SendInput struct {
	Content     string
	Kind        Kind
	Attachments []Attachment
	ReplyTo     string
	RecipientID string
}

// Service implements the message lifecycle once for both the REST mirror and
// the live channel. Every method reports failures as a *errs.CustomError so
// handlers can surface them to the caller without translation.
type Service struct {
	store Store
	users user.Store
}

// NewService returns a Service over the given stores.
func NewService(store Store, users user.Store) *Service {
	return &Service{store: store, users: users}
}

// Send validates, persists, and returns the hydrated message. A reply target
// only has to exist; replying to a soft-deleted message is allowed, matching
// the behavior clients already depend on.
func (s *Service) Send(ctx context.Context, sender user.User, in SendInput) (*Message, *errs.CustomError) {
	content, customErr := ValidateContent(in.Content)
	if customErr != nil {
		return nil, customErr
	}

	if customErr := ValidateAttachments(in.Attachments); customErr != nil {
		return nil, customErr
	}

	kind := in.Kind
	if kind == "" {
		kind = KindText
	}
	if in.RecipientID != "" {
		kind = KindPrivate
	}
	if !kind.Valid() {
		return nil, errs.New(errs.ErrInvalidParams)
	}

	if in.ReplyTo != "" {
		if _, err := s.store.GetByID(ctx, in.ReplyTo); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, errs.New(errs.ErrReplyTargetNotFound)
			}
			logx.Error(err, "send: reply target lookup failed", "reply_to", in.ReplyTo)
			return nil, errs.New(errs.ErrInternal, err)
		}
	}

	if in.RecipientID != "" {
		if _, err := s.users.GetByID(ctx, in.RecipientID); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return nil, errs.New(errs.ErrUserNotFound)
			}
			logx.Error(err, "send: recipient lookup failed", "recipient_id", in.RecipientID)
			return nil, errs.New(errs.ErrInternal, err)
		}
	}

	m := &Message{
		ID:           uuid.New().String(),
		UserID:       sender.ID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Content:      content,
		Kind:         kind,
		Attachments:  in.Attachments,
		Reactions:    []Reaction{},
		ReplyTo:      in.ReplyTo,
		Mentions:     ExtractMentions(content),
		RecipientID:  in.RecipientID,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, m); err != nil {
		logx.Error(err, "send: insert failed", "user_id", sender.ID)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return m, nil
}

// Edit replaces the content of an existing message. Only the owner or an
// admin may edit; concurrent edits are last-write-wins with no version check.
func (s *Service) Edit(ctx context.Context, actor user.User, id, content string) (*Message, *errs.CustomError) {
	m, customErr := s.lookup(ctx, id)
	if customErr != nil {
		return nil, customErr
	}

	if !CanMutate(m, actor) {
		return nil, errs.New(errs.ErrForbidden)
	}

	trimmed, customErr := ValidateContent(content)
	if customErr != nil {
		return nil, customErr
	}

	editedAt := time.Now().UTC()
	mentions := ExtractMentions(trimmed)

	if err := s.store.UpdateContent(ctx, id, trimmed, mentions, editedAt); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errs.New(errs.ErrMessageNotFound)
		}
		logx.Error(err, "edit: update failed", "message_id", id)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return s.refetch(ctx, id)
}

// SoftDelete marks the message deleted without erasing it. The row stays
// addressable by ID for audit and authorization checks.
func (s *Service) SoftDelete(ctx context.Context, actor user.User, id string) *errs.CustomError {
	m, customErr := s.lookup(ctx, id)
	if customErr != nil {
		return customErr
	}

	if !CanMutate(m, actor) {
		return errs.New(errs.ErrForbidden)
	}

	if err := s.store.MarkDeleted(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errs.New(errs.ErrMessageNotFound)
		}
		logx.Error(err, "delete: mark failed", "message_id", id)
		return errs.New(errs.ErrInternal, err)
	}

	return nil
}

// AddReaction sets the actor's reaction on the message, replacing any
// existing one. Any authenticated user may react; there is no ownership
// check.
func (s *Service) AddReaction(ctx context.Context, actor user.User, id, emoji string) (*Message, *errs.CustomError) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, errs.New(errs.ErrInvalidParams)
	}

	if _, customErr := s.lookup(ctx, id); customErr != nil {
		return nil, customErr
	}

	r := Reaction{
		UserID:    actor.ID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.UpsertReaction(ctx, id, r); err != nil {
		logx.Error(err, "add_reaction: upsert failed", "message_id", id)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return s.refetch(ctx, id)
}

// RemoveReaction clears the actor's reaction from the message if present.
func (s *Service) RemoveReaction(ctx context.Context, actor user.User, id string) (*Message, *errs.CustomError) {
	if _, customErr := s.lookup(ctx, id); customErr != nil {
		return nil, customErr
	}

	if err := s.store.DeleteReaction(ctx, id, actor.ID); err != nil {
		logx.Error(err, "remove_reaction: delete failed", "message_id", id)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return s.refetch(ctx, id)
}

// List returns one page of non-deleted messages. The page is fetched newest
// first and reversed, so the response reads oldest-first within the page;
// callers stitching pages must account for that.
func (s *Service) List(ctx context.Context, page, limit int) ([]Message, *errs.CustomError) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	messages, err := s.store.ListPage(ctx, limit, (page-1)*limit)
	if err != nil {
		logx.Error(err, "list: query failed", "page", page, "limit", limit)
		return nil, errs.New(errs.ErrInternal, err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// Search performs a case-insensitive substring match on content, newest
// first, capped at SearchLimit, optionally scoped to one user.
func (s *Service) Search(ctx context.Context, q, userID string) ([]Message, *errs.CustomError) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, errs.New(errs.ErrInvalidParams)
	}

	messages, err := s.store.Search(ctx, q, userID, SearchLimit)
	if err != nil {
		logx.Error(err, "search: query failed", "query", q)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return messages, nil
}

// Stats returns the moderation counters.
func (s *Service) Stats(ctx context.Context) (*Stats, *errs.CustomError) {
	st, err := s.store.Stats(ctx)
	if err != nil {
		logx.Error(err, "stats: query failed")
		return nil, errs.New(errs.ErrInternal, err)
	}

	return st, nil
}

func (s *Service) lookup(ctx context.Context, id string) (*Message, *errs.CustomError) {
	if id == "" {
		return nil, errs.New(errs.ErrInvalidParams)
	}

	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, errs.New(errs.ErrMessageNotFound)
		}
		logx.Error(err, "message lookup failed", "message_id", id)
		return nil, errs.New(errs.ErrInternal, err)
	}

	return m, nil
}

func (s *Service) refetch(ctx context.Context, id string) (*Message, *errs.CustomError) {
	m, err := s.store.GetByID(ctx, id)
	if err != nil {
		logx.Error(err, "refetch after mutation failed", "message_id", id)
		return nil, errs.New(errs.ErrInternal, err)
	}
	return m, nil
}
