package chat

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
	"github.com/erfrost/playreal-backend/internal/ws"
)

// EventPublisher receives a notification after a direct message persists.
// Implementations must not block the send path.
type EventPublisher interface {
	MessageSent(ctx context.Context, m *models.Message)
}

// Service validates, persists and fans out direct messages between two
// users who already share a conversation. It never creates conversations.
type Service struct {
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	users    repository.UserRepository
	reg      *ws.Registry
	events   EventPublisher
	log      *zap.SugaredLogger
}

func NewService(
	convs repository.ConversationRepository,
	messages repository.MessageRepository,
	users repository.UserRepository,
	reg *ws.Registry,
	events EventPublisher,
	log *zap.SugaredLogger,
) *Service {
	return &Service{convs: convs, messages: messages, users: users, reg: reg, events: events, log: log}
}

// SendMessage persists one message and pushes it to the sender's own
// connection and every live connection of the recipient. A payload with no
// recipient, or with neither text nor files, is dropped without
// persistence. Audio-only payloads pass validation.
func (s *Service) SendMessage(ctx context.Context, origin ws.Sender, senderID string, p MessagePayload) error {
	if p.RecipientID == "" || (p.Text == "" && len(p.Files) == 0) {
		return nil
	}
	senderOID, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return apperrors.ErrInvalidPayload
	}
	recipientOID, err := primitive.ObjectIDFromHex(p.RecipientID)
	if err != nil {
		return apperrors.ErrInvalidPayload
	}

	conv, err := s.convs.FindByUsers(ctx, senderOID, recipientOID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrConversationNotFound
		}
		return fmt.Errorf("resolve conversation: %w", err)
	}

	msg, err := s.messages.Insert(ctx, &models.Message{
		ChatID:      conv.ID,
		SenderID:    senderOID,
		RecipientID: recipientOID,
		Text:        p.Text,
		Files:       p.Files,
		Audio:       p.Audio,
		IsRead:      false,
	})
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	if err := s.convs.SetLastMessage(ctx, conv.ID, summarize(p)); err != nil {
		s.log.Warnw("conversation summary update failed", "chat_id", conv.ID.Hex(), "err", err)
	}

	if s.events != nil {
		s.events.MessageSent(ctx, msg)
	}

	out := ws.Envelope{Type: ws.EventMessage, Payload: msg}
	if origin != nil && !origin.Send(out) {
		s.log.Debugw("message echo dropped", "sender_id", senderID)
	}
	for _, entry := range s.reg.ConnectionsByUser(p.RecipientID) {
		if !entry.Send(out) {
			s.log.Debugw("message push dropped", "conn_id", entry.ConnID)
		}
	}
	return nil
}

// summarize picks the conversation preview: the text when present, then a
// file-count placeholder, then a fixed one.
func summarize(p MessagePayload) string {
	switch {
	case p.Text != "":
		return p.Text
	case len(p.Files) > 0:
		return fmt.Sprintf("Files: %d", len(p.Files))
	default:
		return "Attachment"
	}
}

// ReadMessages flips the read flag on every unread message addressed to
// the user in a conversation. The per-message updates run in the
// background with no completion signal back to the caller; only the
// conversation's own save is awaited.
func (s *Service) ReadMessages(ctx context.Context, p ReadPayload) error {
	if p.ChatID == "" || p.UserID == "" {
		return apperrors.ErrInvalidPayload
	}
	chatOID, err := primitive.ObjectIDFromHex(p.ChatID)
	if err != nil {
		return apperrors.ErrConversationNotFound
	}
	userOID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}

	conv, err := s.convs.FindByID(ctx, chatOID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrConversationNotFound
		}
		return fmt.Errorf("resolve conversation: %w", err)
	}
	if _, err := s.users.FindByID(ctx, userOID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	unread, err := s.messages.FindUnread(ctx, chatOID, userOID)
	if err != nil {
		return fmt.Errorf("find unread: %w", err)
	}

	go func() {
		bg := context.Background()
		for _, m := range unread {
			if err := s.messages.MarkRead(bg, m.ID); err != nil {
				s.log.Warnw("mark read failed", "message_id", m.ID.Hex(), "err", err)
			}
		}
	}()

	return s.convs.Save(ctx, conv)
}
