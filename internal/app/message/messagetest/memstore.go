/*
Package messagetest provides an in-memory message.Store for tests.

MemStore mirrors the Postgres store's contract, including sender hydration
and the replace-on-add reaction semantics, so Service and handler tests run
without a database.
*/
package messagetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"relaychat/internal/app/message"
)

// Sender is the denormalized identity MemStore hydrates onto messages.
type Sender struct {
	Name   string
	Avatar string
}

// MemStore is a map-backed message.Store. The zero value is not usable; call
// NewMemStore.
type MemStore struct {
	mu       sync.Mutex
	messages map[string]*message.Message
	senders  map[string]Sender

	// Err, when set, is returned by every operation. Used to exercise the
	// internal-error paths.
	Err error
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		messages: make(map[string]*message.Message),
		senders:  make(map[string]Sender),
	}
}

// SetSender registers the name/avatar hydrated for a user's messages.
func (s *MemStore) SetSender(userID, name, avatar string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.senders[userID] = Sender{Name: name, Avatar: avatar}
}

func (s *MemStore) hydrate(m *message.Message) message.Message {
	out := *m
	if sender, ok := s.senders[m.UserID]; ok {
		out.SenderName = sender.Name
		out.SenderAvatar = sender.Avatar
	}
	out.Attachments = append([]message.Attachment(nil), m.Attachments...)
	out.Reactions = append([]message.Reaction{}, m.Reactions...)
	out.Mentions = append([]string{}, m.Mentions...)
	return out
}

// Insert stores a copy of m.
func (s *MemStore) Insert(_ context.Context, m *message.Message) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *m
	s.messages[m.ID] = &stored
	return nil
}

// GetByID returns the hydrated message, soft-deleted included.
func (s *MemStore) GetByID(_ context.Context, id string) (*message.Message, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return nil, message.ErrNotFound
	}

	out := s.hydrate(m)
	return &out, nil
}

func (s *MemStore) visible() []*message.Message {
	var out []*message.Message
	for _, m := range s.messages {
		if m.Deleted || m.Kind == message.KindPrivate {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ListPage returns non-deleted messages newest first.
func (s *MemStore) ListPage(_ context.Context, limit, offset int) ([]message.Message, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.visible()
	if offset >= len(all) {
		return nil, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	page := make([]message.Message, 0, end-offset)
	for _, m := range all[offset:end] {
		page = append(page, s.hydrate(m))
	}
	return page, nil
}

// Search matches content case-insensitively as a substring.
func (s *MemStore) Search(_ context.Context, q, userID string, limit int) ([]message.Message, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lower := strings.ToLower(q)
	var out []message.Message
	for _, m := range s.visible() {
		if len(out) >= limit {
			break
		}
		if userID != "" && m.UserID != userID {
			continue
		}
		if !strings.Contains(strings.ToLower(m.Content), lower) {
			continue
		}
		out = append(out, s.hydrate(m))
	}
	return out, nil
}

// UpdateContent edits the stored message in place.
func (s *MemStore) UpdateContent(_ context.Context, id, content string, mentions []string, editedAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return message.ErrNotFound
	}

	m.Content = content
	m.Mentions = append([]string(nil), mentions...)
	m.Edited = true
	m.EditedAt = &editedAt
	return nil
}

// MarkDeleted soft-deletes the stored message.
func (s *MemStore) MarkDeleted(_ context.Context, id string, deletedAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[id]
	if !ok {
		return message.ErrNotFound
	}

	m.Deleted = true
	m.DeletedAt = &deletedAt
	return nil
}

// UpsertReaction replaces any existing reaction from the same user.
func (s *MemStore) UpsertReaction(_ context.Context, messageID string, r message.Reaction) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return message.ErrNotFound
	}

	for i := range m.Reactions {
		if m.Reactions[i].UserID == r.UserID {
			m.Reactions[i] = r
			return nil
		}
	}
	m.Reactions = append(m.Reactions, r)
	return nil
}

// DeleteReaction removes the user's reaction if present.
func (s *MemStore) DeleteReaction(_ context.Context, messageID, userID string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.messages[messageID]
	if !ok {
		return message.ErrNotFound
	}

	for i := range m.Reactions {
		if m.Reactions[i].UserID == userID {
			m.Reactions = append(m.Reactions[:i], m.Reactions[i+1:]...)
			return nil
		}
	}
	return nil
}

// Stats computes the aggregate counters over non-deleted messages.
func (s *MemStore) Stats(_ context.Context) (*message.Stats, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var st message.Stats
	for _, m := range s.messages {
		if m.Deleted {
			continue
		}
		st.TotalMessages++
		st.TotalReactions += int64(len(m.Reactions))
		if len(m.Reactions) > 0 {
			st.MessagesWithReactions++
		}
	}
	if st.TotalMessages > 0 {
		st.AvgReactionsPerMessage = float64(st.TotalReactions) / float64(st.TotalMessages)
	}
	return &st, nil
}
