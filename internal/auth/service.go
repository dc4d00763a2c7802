package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Service handles account creation and the credential flows. An account
// is keyed by (email, role): the same email may own both a regular and a
// booster account.
type Service struct {
	users  repository.UserRepository
	tokens repository.TokenRepository
	tm     *TokenManager
	log    *zap.SugaredLogger
}

func NewService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	tm *TokenManager,
	log *zap.SugaredLogger,
) *Service {
	return &Service{users: users, tokens: tokens, tm: tm, log: log}
}

type SignUpInput struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResult is the response of every credential flow.
type AuthResult struct {
	UserID string `json:"userId"`
	TokenPair
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	if in.Email == "" || in.Nickname == "" || in.Password == "" || in.Role == "" {
		return nil, apperrors.ErrInvalidPayload
	}
	if !IsValidEmail(in.Email) || !IsValidNickname(in.Nickname) || !IsValidPassword(in.Password) {
		return nil, apperrors.ErrInvalidPayload
	}
	if in.Role != models.RoleUser && in.Role != models.RoleBooster {
		return nil, apperrors.ErrInvalidPayload
	}

	_, err := s.users.FindByEmailAndRole(ctx, in.Email, in.Role)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		Email:        in.Email,
		Nickname:     in.Nickname,
		PasswordHash: hash,
		Role:         in.Role,
		Games:        []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.issue(ctx, u.ID)
}

func (s *Service) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	if in.Email == "" || in.Password == "" || in.Role == "" {
		return nil, apperrors.ErrInvalidPayload
	}

	u, err := s.users.FindByEmailAndRole(ctx, in.Email, in.Role)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, fmt.Errorf("resolve account: %w", err)
	}
	if u.PasswordHash == "" || !CheckPassword(u.PasswordHash, in.Password) {
		return nil, apperrors.ErrBadCredentials
	}

	return s.issue(ctx, u.ID)
}

// Refresh rotates the token pair. The presented refresh token must both
// verify and match the stored copy, so a rotated-out token is dead even
// though it never expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, apperrors.ErrBadCredentials
	}
	if _, err := s.tm.ParseRefresh(refreshToken); err != nil {
		return nil, apperrors.ErrBadCredentials
	}
	stored, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrBadCredentials
		}
		return nil, fmt.Errorf("resolve refresh token: %w", err)
	}

	return s.issue(ctx, stored.UserID)
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperrors.ErrInvalidPayload
	}
	return s.tokens.DeleteByUser(ctx, oid)
}

// VerifyAccess maps an access token onto a user id.
func (s *Service) VerifyAccess(tokenStr string) (string, error) {
	userID, err := s.tm.ParseAccess(tokenStr)
	if err != nil {
		return "", apperrors.ErrBadCredentials
	}
	return userID, nil
}

func (s *Service) issue(ctx context.Context, userID primitive.ObjectID) (*AuthResult, error) {
	pair, err := s.tm.Generate(userID.Hex())
	if err != nil {
		return nil, fmt.Errorf("sign tokens: %w", err)
	}
	if err := s.tokens.Upsert(ctx, userID, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &AuthResult{UserID: userID.Hex(), TokenPair: *pair}, nil
}
