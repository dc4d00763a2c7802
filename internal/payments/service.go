package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/catalog"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

// Service creates checkout records for cart orders. The cart is priced
// server-side against the stored catalog; amounts sent by the client are
// ignored. Checkouts are idempotent per client-supplied key so a retried
// request can never double-charge.
type Service struct {
	payments repository.PaymentRepository
	catalog  *catalog.Service
	log      *zap.SugaredLogger
}

func NewService(payments repository.PaymentRepository, cat *catalog.Service, log *zap.SugaredLogger) *Service {
	return &Service{payments: payments, catalog: cat, log: log}
}

type CheckoutInput struct {
	Items          []catalog.CartItem `json:"items"`
	IdempotencyKey string             `json:"idempotencyKey"`
}

func (s *Service) Checkout(ctx context.Context, userID string, in CheckoutInput) (*models.Payment, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	if len(in.Items) == 0 {
		return nil, apperrors.ErrInvalidPayload
	}

	key := in.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	} else {
		existing, err := s.payments.FindByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("check idempotency key: %w", err)
		}
	}

	var total int
	items := make([]models.PaymentItem, 0, len(in.Items))
	for _, item := range in.Items {
		q, err := s.catalog.QuoteCartItem(ctx, item)
		if err != nil {
			return nil, err
		}
		svc, err := s.catalog.ServiceByID(ctx, item.ServiceID)
		if err != nil {
			return nil, err
		}
		total += q.Price
		items = append(items, models.PaymentItem{
			ServiceID:   item.ServiceID,
			Name:        q.Title,
			Image:       svc.BackgroundCard,
			Amount:      q.Price,
			RatingRange: item.RatingRange,
			Additionals: item.Additionals,
		})
	}

	p := &models.Payment{
		UserID:         uid,
		Amount:         total,
		Items:          items,
		Status:         models.PaymentWaiting,
		IdempotencyKey: key,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	s.log.Infow("checkout created", "payment_id", p.ID.Hex(), "user_id", userID, "amount", total)
	return p, nil
}

// Confirm marks a payment as paid. Called from the provider webhook.
func (s *Service) Confirm(ctx context.Context, paymentID string) error {
	oid, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		return apperrors.ErrInvalidPayload
	}
	p, err := s.payments.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrInvalidPayload
		}
		return fmt.Errorf("resolve payment: %w", err)
	}
	if p.Status == models.PaymentPaid {
		return nil
	}
	if err := s.payments.SetStatus(ctx, oid, models.PaymentPaid); err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	s.log.Infow("payment confirmed", "payment_id", paymentID)
	return nil
}

func (s *Service) History(ctx context.Context, userID string) ([]*models.Payment, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrInvalidPayload
	}
	return s.payments.ListByUser(ctx, uid)
}
