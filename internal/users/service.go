package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/auth"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Service reads and updates user profiles.
type Service struct {
	users repository.UserRepository
	games repository.CatalogRepository
	log   *zap.SugaredLogger
}

func NewService(users repository.UserRepository, games repository.CatalogRepository, log *zap.SugaredLogger) *Service {
	return &Service{users: users, games: games, log: log}
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	return u, nil
}

type UpdateInput struct {
	Nickname    string   `json:"nickname"`
	Description string   `json:"description"`
	AvatarURL   string   `json:"avatar_url"`
	Password    string   `json:"password,omitempty"`
	Games       []string `json:"games"`
}

// Update rewrites the caller's profile. Nickname is mandatory; a password
// is rehashed only when one is supplied.
func (s *Service) Update(ctx context.Context, userID string, in UpdateInput) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if in.Nickname == "" || !auth.IsValidNickname(in.Nickname) {
		return nil, apperrors.ErrInvalidPayload
	}

	games := make([]primitive.ObjectID, 0, len(in.Games))
	for _, g := range in.Games {
		gid, err := primitive.ObjectIDFromHex(g)
		if err != nil {
			return nil, apperrors.ErrInvalidPayload
		}
		games = append(games, gid)
	}

	fields := bson.M{
		"nickname":    in.Nickname,
		"description": in.Description,
		"avatar_url":  in.AvatarURL,
		"games":       games,
	}
	if in.Password != "" {
		if !auth.IsValidPassword(in.Password) {
			return nil, apperrors.ErrInvalidPayload
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hash
	}

	if err := s.users.UpdateProfile(ctx, oid, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.Infow("profile updated", "user_id", userID)
	return s.Profile(ctx, userID)
}

// BoostersByGame lists boosters offering services in a game.
func (s *Service) BoostersByGame(ctx context.Context, gameID string) ([]*models.User, error) {
	gid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	if _, err := s.games.FindGame(ctx, gid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidPayload
		}
		return nil, fmt.Errorf("resolve game: %w", err)
	}
	return s.users.ListBoostersByGame(ctx, gid)
}
