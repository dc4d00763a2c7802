package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Service reads the game/service catalog and prices cart items.
type Service struct {
	repo repository.CatalogRepository
}

func NewService(repo repository.CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Games(ctx context.Context) ([]*models.Game, error) {
	return s.repo.ListGames(ctx)
}

func (s *Service) ServicesByGame(ctx context.Context, gameID string) ([]*models.CatalogService, error) {
	oid, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	return s.repo.ListServices(ctx, oid)
}

func (s *Service) ServiceByID(ctx context.Context, serviceID string) (*models.CatalogService, error) {
	oid, err := primitive.ObjectIDFromHex(serviceID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	svc, err := s.repo.FindService(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidPayload
		}
		return nil, fmt.Errorf("resolve service: %w", err)
	}
	return svc, nil
}

// CartItem is one order line as the client sends it.
type CartItem struct {
	ServiceID   string              `json:"serviceId"`
	RatingRange []int               `json:"ratingRange"`
	Additionals []models.Additional `json:"additionals"`
}

// QuoteCartItem prices a single cart line against the stored service.
func (s *Service) QuoteCartItem(ctx context.Context, item CartItem) (*Quote, error) {
	svc, err := s.ServiceByID(ctx, item.ServiceID)
	if err != nil {
		return nil, err
	}
	q := QuoteService(svc, item.RatingRange, item.Additionals)
	return &q, nil
}
