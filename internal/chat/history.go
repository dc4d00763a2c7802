package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Counterpart is the other party of a conversation as chat lists render
// it.
type Counterpart struct {
	ID             primitive.ObjectID `json:"id"`
	Nickname       string             `json:"nickname"`
	AvatarURL      string             `json:"avatar_url,omitempty"`
	OnlineStatus   bool               `json:"onlineStatus"`
	LastOnlineDate time.Time          `json:"lastOnlineDate"`
}

// ChatView is a conversation joined with its counterpart.
type ChatView struct {
	*models.Conversation
	User *Counterpart `json:"user,omitempty"`
}

// ListChats returns every conversation the user participates in, each
// with the counterpart's presence snapshot attached.
func (s *Service) ListChats(ctx context.Context, userID string) ([]*ChatView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if _, err := s.users.FindByID(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	convs, err := s.convs.ListForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]*ChatView, 0, len(convs))
	for _, conv := range convs {
		view := &ChatView{Conversation: conv}
		for _, other := range conv.Users {
			if other == uid {
				continue
			}
			if u, err := s.users.FindByID(ctx, other); err == nil {
				view.User = &Counterpart{
					ID:             u.ID,
					Nickname:       u.Nickname,
					AvatarURL:      u.AvatarURL,
					OnlineStatus:   u.OnlineStatus,
					LastOnlineDate: u.LastOnlineDate,
				}
			}
			break
		}
		out = append(out, view)
	}
	return out, nil
}

// ChatIDWith resolves the conversation shared with another user.
func (s *Service) ChatIDWith(ctx context.Context, userID, otherID string) (string, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return "", apperrors.ErrUserNotFound
	}
	oid, err := primitive.ObjectIDFromHex(otherID)
	if err != nil {
		return "", apperrors.ErrUserNotFound
	}
	conv, err := s.convs.FindByUsers(ctx, uid, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.ErrConversationNotFound
		}
		return "", fmt.Errorf("resolve conversation: %w", err)
	}
	return conv.ID.Hex(), nil
}

// Messages returns a conversation's full history. Only participants may
// read it.
func (s *Service) Messages(ctx context.Context, userID, chatID string) ([]*models.Message, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	cid, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil, apperrors.ErrConversationNotFound
	}

	conv, err := s.convs.FindByID(ctx, cid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, fmt.Errorf("resolve conversation: %w", err)
	}
	member := false
	for _, u := range conv.Users {
		if u == uid {
			member = true
			break
		}
	}
	if !member {
		return nil, apperrors.ErrAccessDenied
	}

	msgs, err := s.messages.ListByChat(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
