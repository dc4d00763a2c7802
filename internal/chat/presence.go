package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/repository"
	"github.com/erfrost/playreal-backend/internal/ws"
)

// PresenceService reflects connect/disconnect transitions into the user
// record and notifies every conversation counterpart of the user.
type PresenceService struct {
	users repository.UserRepository
	convs repository.ConversationRepository
	reg   *ws.Registry
	cache *PresenceCache
	log   *zap.SugaredLogger
}

func NewPresenceService(
	users repository.UserRepository,
	convs repository.ConversationRepository,
	reg *ws.Registry,
	cache *PresenceCache,
	log *zap.SugaredLogger,
) *PresenceService {
	return &PresenceService{users: users, convs: convs, reg: reg, cache: cache, log: log}
}

// SetOnlineStatus persists the user's online flag (stamping the last-online
// date on the offline transition) and pushes one onlineStatus event per
// live connection of every distinct counterpart across the user's
// conversations. Errors are reported to the caller so the gateway can
// surface them on the triggering connection only.
func (s *PresenceService) SetOnlineStatus(ctx context.Context, userID string, online bool) error {
	if userID == "" {
		return apperrors.ErrInvalidPayload
	}
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrUserNotFound
	}
	if _, err := s.users.FindByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	now := time.Now().UTC()
	var lastOnline time.Time
	if !online {
		lastOnline = now
	}
	if err := s.users.SetOnlineStatus(ctx, oid, online, lastOnline); err != nil {
		return fmt.Errorf("persist online status: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, online, now); err != nil {
			s.log.Warnw("presence cache update failed", "user_id", userID, "err", err)
		}
	}

	convs, err := s.convs.ListForUser(ctx, oid)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	counterparts := make(map[string]struct{})
	for _, c := range convs {
		for _, u := range c.Users {
			if u != oid {
				counterparts[u.Hex()] = struct{}{}
			}
		}
	}

	event := ws.Envelope{
		Type: ws.EventOnlineStatus,
		Payload: PresenceEvent{
			UserID:         userID,
			OnlineStatus:   online,
			LastOnlineDate: now,
		},
	}
	for cp := range counterparts {
		for _, entry := range s.reg.ConnectionsByUser(cp) {
			if !entry.Send(event) {
				s.log.Debugw("presence push dropped", "conn_id", entry.ConnID)
			}
		}
	}
	return nil
}

// Presence answers the REST presence lookup from the cache when possible,
// falling back to the user record on a miss.
func (s *PresenceService) Presence(ctx context.Context, userID string) (*PresenceSnapshot, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if s.cache != nil {
		if snap, err := s.cache.Get(ctx, userID); err == nil {
			return snap, nil
		}
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	status := "offline"
	if u.OnlineStatus {
		status = "online"
	}
	return &PresenceSnapshot{Status: status, LastSeen: u.LastOnlineDate.Unix()}, nil
}
