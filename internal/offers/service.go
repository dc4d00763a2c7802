package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/catalog"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Service runs the offer lifecycle: a regular user posts boosting orders,
// boosters browse pending ones and accept. Accepting an offer is what
// opens the direct chat between the two parties.
type Service struct {
	offers  repository.OfferRepository
	convs   repository.ConversationRepository
	users   repository.UserRepository
	catalog repository.CatalogRepository
	log     *zap.SugaredLogger
}

func NewService(
	offers repository.OfferRepository,
	convs repository.ConversationRepository,
	users repository.UserRepository,
	cat repository.CatalogRepository,
	log *zap.SugaredLogger,
) *Service {
	return &Service{offers: offers, convs: convs, users: users, catalog: cat, log: log}
}

type CreateInput struct {
	ServiceID   string              `json:"serviceId"`
	RatingRange []int               `json:"ratingRange"`
	Additionals []models.Additional `json:"additionals"`
}

// Create posts one offer per cart line. Only regular users order boosts.
func (s *Service) Create(ctx context.Context, userID string, items []CreateInput) ([]*models.Offer, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if u.Role != models.RoleUser {
		return nil, apperrors.ErrAccessDenied
	}
	if len(items) == 0 {
		return nil, apperrors.ErrInvalidPayload
	}

	// validate the whole cart before creating anything
	services := make([]*models.CatalogService, 0, len(items))
	for _, item := range items {
		sid, err := primitive.ObjectIDFromHex(item.ServiceID)
		if err != nil {
			return nil, apperrors.ErrInvalidPayload
		}
		svc, err := s.catalog.FindService(ctx, sid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.ErrInvalidPayload
			}
			return nil, fmt.Errorf("resolve service: %w", err)
		}
		if len(item.RatingRange) != 2 || item.RatingRange[0] >= item.RatingRange[1] {
			return nil, apperrors.ErrInvalidPayload
		}
		services = append(services, svc)
	}

	out := make([]*models.Offer, 0, len(items))
	for i, item := range items {
		o := &models.Offer{
			UserID:      uid,
			ServiceID:   services[i].ID,
			GameID:      services[i].GameID,
			RatingRange: item.RatingRange,
			Additionals: item.Additionals,
			Status:      models.OfferPending,
		}
		if o.Additionals == nil {
			o.Additionals = []models.Additional{}
		}
		if err := s.offers.Create(ctx, o); err != nil {
			return nil, fmt.Errorf("create offer: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

// OfferView is an offer joined with its catalog and user context, the
// shape booster and client dashboards render.
type OfferView struct {
	*models.Offer
	GameName     string `json:"gameName,omitempty"`
	Title        string `json:"title,omitempty"`
	ServiceImage string `json:"serviceImage,omitempty"`
	UserName     string `json:"userName,omitempty"`
	UserAvatar   string `json:"userAvatar,omitempty"`
	BoosterName  string `json:"boosterName,omitempty"`
	Price        int    `json:"price"`
	Days         int    `json:"days"`
}

// ListPending returns pending offers in the booster's selected games.
func (s *Service) ListPending(ctx context.Context, boosterID string, gameIDs []string) ([]*OfferView, error) {
	bid, err := primitive.ObjectIDFromHex(boosterID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	booster, err := s.users.FindByID(ctx, bid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve booster: %w", err)
	}
	if booster.Role != models.RoleBooster {
		return nil, apperrors.ErrAccessDenied
	}

	oids := make([]primitive.ObjectID, 0, len(gameIDs))
	for _, g := range gameIDs {
		oid, err := primitive.ObjectIDFromHex(g)
		if err != nil {
			return nil, apperrors.ErrInvalidPayload
		}
		oids = append(oids, oid)
	}

	list, err := s.offers.ListPendingByGames(ctx, oids)
	if err != nil {
		return nil, fmt.Errorf("list pending offers: %w", err)
	}
	return s.expand(ctx, list), nil
}

// ListPersonal returns the caller's offers: posted ones for regular
// users, accepted ones for boosters.
func (s *Service) ListPersonal(ctx context.Context, userID string) ([]*OfferView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	var list []*models.Offer
	if u.Role == models.RoleBooster {
		list, err = s.offers.ListByBooster(ctx, uid)
	} else {
		list, err = s.offers.ListByUser(ctx, uid)
	}
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return s.expand(ctx, list), nil
}

// AcceptResult carries the accepted offer plus the chat the booster and
// client now share.
type AcceptResult struct {
	Offer  *models.Offer `json:"offer"`
	ChatID string        `json:"chatId"`
}

// Accept moves a pending offer to AtWork under the calling booster and
// opens (or reuses) the direct conversation with the client.
func (s *Service) Accept(ctx context.Context, boosterID, offerID string) (*AcceptResult, error) {
	bid, err := primitive.ObjectIDFromHex(boosterID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	oid, err := primitive.ObjectIDFromHex(offerID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}

	booster, err := s.users.FindByID(ctx, bid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve booster: %w", err)
	}
	if booster.Role != models.RoleBooster {
		return nil, apperrors.ErrAccessDenied
	}

	offer, err := s.offers.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrInvalidPayload
		}
		return nil, fmt.Errorf("resolve offer: %w", err)
	}
	client, err := s.users.FindByID(ctx, offer.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve client: %w", err)
	}
	if client.Role != models.RoleUser {
		return nil, apperrors.ErrAccessDenied
	}

	if err := s.offers.SetStatus(ctx, offer.ID, models.OfferAtWork, bid); err != nil {
		return nil, fmt.Errorf("accept offer: %w", err)
	}
	offer.Status = models.OfferAtWork
	offer.BoosterID = bid
	offer.UpdatedAt = time.Now().UTC()

	conv, err := s.convs.FindByUsers(ctx, client.ID, bid)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("resolve conversation: %w", err)
		}
		conv = &models.Conversation{Users: []primitive.ObjectID{client.ID, bid}}
		if err := s.convs.Create(ctx, conv); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		s.log.Infow("conversation opened", "chat_id", conv.ID.Hex(), "client", client.ID.Hex(), "booster", bid.Hex())
	}

	return &AcceptResult{Offer: offer, ChatID: conv.ID.Hex()}, nil
}

// expand joins catalog and user context onto offers. Lookups are
// best-effort: a missing game or deleted user leaves fields blank rather
// than failing the listing.
func (s *Service) expand(ctx context.Context, list []*models.Offer) []*OfferView {
	out := make([]*OfferView, 0, len(list))
	for _, o := range list {
		v := &OfferView{Offer: o}
		if svc, err := s.catalog.FindService(ctx, o.ServiceID); err == nil {
			v.Title = svc.Name
			v.ServiceImage = svc.BackgroundCard
			q := catalog.QuoteService(svc, o.RatingRange, o.Additionals)
			v.Price = q.Price
			v.Days = q.Days
		}
		if g, err := s.catalog.FindGame(ctx, o.GameID); err == nil {
			v.GameName = g.Name
		}
		if u, err := s.users.FindByID(ctx, o.UserID); err == nil {
			v.UserName = u.Nickname
			v.UserAvatar = u.AvatarURL
		}
		if !o.BoosterID.IsZero() {
			if b, err := s.users.FindByID(ctx, o.BoosterID); err == nil {
				v.BoosterName = b.Nickname
			}
		}
		out = append(out, v)
	}
	return out
}
