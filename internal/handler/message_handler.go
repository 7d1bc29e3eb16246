package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"relaychat/internal/app/chat"
	"relaychat/internal/app/message"
	"relaychat/internal/pkg/auth/jwt"
	"relaychat/internal/pkg/errs"
	"relaychat/internal/pkg/req"
	"relaychat/internal/pkg/resp"
)

// SendMessageInput is the JSON body of POST /api/messages.
type SendMessageInput struct {
	Content     string               `json:"content"`
	Kind        message.Kind         `json:"kind,omitempty"`
	Attachments []message.Attachment `json:"attachments,omitempty"`
	ReplyTo     string               `json:"replyTo,omitempty"`
}

// EditMessageInput is the JSON body of PUT /api/messages/{id}.
type EditMessageInput struct {
	Content string `json:"content"`
}

// ReactionInput is the JSON body of POST /api/messages/{id}/reactions.
type ReactionInput struct {
	Emoji string `json:"emoji"`
}

// PrivateMessageInput is the JSON body of POST /api/messages/private.
type PrivateMessageInput struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

// HandleListMessages returns one page of the room history, oldest-first
// within the page. A non-empty "search" parameter switches to search mode.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if q := query.Get("search"); q != "" {
			messages, customErr := deps.Messages.Search(r.Context(), q, "")
			if customErr != nil {
				resp.Error(w, customErr)
				return
			}

			resp.Success(w, map[string]any{
				"messages": messages,
			})
			return
		}

		page, _ := strconv.Atoi(query.Get("page"))
		limit, _ := strconv.Atoi(query.Get("limit"))

		messages, customErr := deps.Messages.List(r.Context(), page, limit)
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		resp.Success(w, map[string]any{
			"messages": messages,
			"page":     max(page, 1),
			"count":    len(messages),
		})
	}
}

// HandleSendMessage posts a message to the room and fans it out to every
// connected client.
func HandleSendMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)

		var input SendMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		m, customErr := deps.Messages.Send(r.Context(), *u, message.SendInput{
			Content:     input.Content,
			Kind:        input.Kind,
			Attachments: input.Attachments,
			ReplyTo:     input.ReplyTo,
		})
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		deps.Hub.Broadcast(chat.EvtNewMessage, m, "")

		resp.Created(w, map[string]any{
			"message": m,
		})
	}
}

// HandleEditMessage replaces a message's content. Owner or admin only.
func HandleEditMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		id := chi.URLParam(r, "id")

		var input EditMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		m, customErr := deps.Messages.Edit(r.Context(), *u, id, input.Content)
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		deps.Hub.Broadcast(chat.EvtMessageEdited, m, "")

		resp.Success(w, map[string]any{
			"message": m,
		})
	}
}

// HandleDeleteMessage soft-deletes a message. Owner or admin only.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		id := chi.URLParam(r, "id")

		if customErr := deps.Messages.SoftDelete(r.Context(), *u, id); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		deps.Hub.Broadcast(chat.EvtMessageDeleted, chat.TargetPayload{ID: id}, "")

		resp.Success(w, map[string]any{
			"id": id,
		})
	}
}

// HandleAddReaction sets the caller's reaction on a message, replacing any
// existing one.
func HandleAddReaction(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		id := chi.URLParam(r, "id")

		var input ReactionInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		m, customErr := deps.Messages.AddReaction(r.Context(), *u, id, input.Emoji)
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		deps.Hub.Broadcast(chat.EvtReactionAdded, chat.ReactionsPayload{
			ID:        m.ID,
			Reactions: m.Reactions,
		}, "")

		resp.Success(w, map[string]any{
			"message": m,
		})
	}
}

// HandleRemoveReaction clears the caller's reaction from a message.
func HandleRemoveReaction(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		id := chi.URLParam(r, "id")

		m, customErr := deps.Messages.RemoveReaction(r.Context(), *u, id)
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		deps.Hub.Broadcast(chat.EvtReactionRemoved, chat.ReactionsPayload{
			ID:        m.ID,
			Reactions: m.Reactions,
		}, "")

		resp.Success(w, map[string]any{
			"message": m,
		})
	}
}

// HandleSearchMessages performs a case-insensitive substring search, newest
// first, optionally scoped to one sender via "userId".
func HandleSearchMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		messages, customErr := deps.Messages.Search(r.Context(), query.Get("q"), query.Get("userId"))
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		resp.Success(w, map[string]any{
			"messages": messages,
		})
	}
}

// HandleMessageStats returns the moderation counters. Moderator or admin only.
func HandleMessageStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)
		if !u.CanModerate() {
			resp.Error(w, errs.New(errs.ErrForbidden))
			return
		}

		stats, customErr := deps.Messages.Stats(r.Context())
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		resp.Success(w, map[string]any{
			"stats": stats,
		})
	}
}

// HandleSendPrivate delivers a direct message to one recipient's live
// connection. Delivery is best-effort; the message persists either way.
func HandleSendPrivate(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := jwt.UserFromContext(r)

		var input PrivateMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.Error(w, customErr)
			return
		}

		if input.RecipientID == "" {
			resp.Error(w, errs.New(errs.ErrInvalidParams))
			return
		}

		// Recipient existence is checked inside Send, the same as on the
		// live channel.
		m, customErr := deps.Messages.Send(r.Context(), *u, message.SendInput{
			Content:     input.Content,
			RecipientID: input.RecipientID,
		})
		if customErr != nil {
			resp.Error(w, customErr)
			return
		}

		delivered := deps.Hub.SendTo(input.RecipientID, chat.EvtNewMessage, m)

		resp.Created(w, map[string]any{
			"message":   m,
			"delivered": delivered,
		})
	}
}
