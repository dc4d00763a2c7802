package support

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
	"github.com/erfrost/playreal-backend/internal/ws"
)

// Service implements the single-operator support inbox: every requesting
// user owns at most one support conversation, and one configured account
// acts as the operator. Posting is split into explicit requester and
// operator operations so the conversation key is never ambiguous.
type Service struct {
	repo          repository.SupportRepository
	users         repository.UserRepository
	reg           *ws.Registry
	operatorEmail string
	log           *zap.SugaredLogger
}

func NewService(
	repo repository.SupportRepository,
	users repository.UserRepository,
	reg *ws.Registry,
	operatorEmail string,
	log *zap.SugaredLogger,
) *Service {
	return &Service{repo: repo, users: users, reg: reg, operatorEmail: operatorEmail, log: log}
}

// Classify resolves the connecting user and decides whether this
// connection is the operator inbox. Evaluated once at connect time.
func (s *Service) Classify(ctx context.Context, userID string) (ws.Role, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return ws.RoleRegular, apperrors.ErrUserNotFound
	}
	u, err := s.users.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ws.RoleRegular, apperrors.ErrUserNotFound
		}
		return ws.RoleRegular, fmt.Errorf("resolve user: %w", err)
	}
	if s.operatorEmail != "" && strings.EqualFold(u.Email, s.operatorEmail) {
		return ws.RoleOperator, nil
	}
	return ws.RoleRegular, nil
}

// PostAsRequester stores a message in the sender's own support thread,
// creating the thread on first contact. Empty input is dropped silently.
// Returns the stored message and the thread's requester id.
func (s *Service) PostAsRequester(ctx context.Context, requesterID, text string) (*models.SupportMessage, string, error) {
	if requesterID == "" || text == "" {
		return nil, "", nil
	}
	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, "", apperrors.ErrInvalidPayload
	}

	conv, err := s.findOrCreate(ctx, requesterOID)
	if err != nil {
		return nil, "", err
	}
	msg, err := s.appendMessage(ctx, conv, requesterOID, text)
	if err != nil {
		return nil, "", err
	}
	return msg, conv.UserID.Hex(), nil
}

// PostAsOperator stores the operator's reply in the requester's thread.
// The thread must already exist: the operator never opens conversations.
func (s *Service) PostAsOperator(ctx context.Context, operatorID, requesterID, text string) (*models.SupportMessage, string, error) {
	if operatorID == "" || requesterID == "" || text == "" {
		return nil, "", nil
	}
	operatorOID, err := primitive.ObjectIDFromHex(operatorID)
	if err != nil {
		return nil, "", apperrors.ErrInvalidPayload
	}
	requesterOID, err := primitive.ObjectIDFromHex(requesterID)
	if err != nil {
		return nil, "", apperrors.ErrInvalidPayload
	}

	conv, err := s.repo.FindConversationByUser(ctx, requesterOID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperrors.ErrConversationNotFound
		}
		return nil, "", fmt.Errorf("resolve support conversation: %w", err)
	}
	msg, err := s.appendMessage(ctx, conv, operatorOID, text)
	if err != nil {
		return nil, "", err
	}
	return msg, conv.UserID.Hex(), nil
}

// Route delivers a stored message: echo to the origin, then the requester
// side when the operator sent it, otherwise the operator inbox. Absent
// targets leave the message persisted but unpushed.
func (s *Service) Route(origin *ws.Entry, msg *models.SupportMessage, requesterID string) {
	out := ws.Envelope{Type: ws.EventMessage, Payload: msg}
	if origin != nil && !origin.Send(out) {
		s.log.Debugw("support echo dropped", "conn_id", origin.ConnID)
	}

	if origin != nil && origin.Role == ws.RoleOperator {
		for _, entry := range s.reg.ConnectionsByUser(requesterID) {
			if !entry.Send(out) {
				s.log.Debugw("support push dropped", "conn_id", entry.ConnID)
			}
		}
		return
	}
	if op, ok := s.reg.OperatorConnection(); ok {
		if !op.Send(out) {
			s.log.Debugw("support push to operator dropped", "conn_id", op.ConnID)
		}
	}
}

// History returns the caller's support thread. Users who never wrote to
// support get an empty list, not an error.
func (s *Service) History(ctx context.Context, userID string) ([]*models.SupportMessage, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	if _, err := s.users.FindByID(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	conv, err := s.repo.FindConversationByUser(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []*models.SupportMessage{}, nil
		}
		return nil, fmt.Errorf("resolve support conversation: %w", err)
	}
	return s.repo.ListMessages(ctx, conv.ID)
}

func (s *Service) findOrCreate(ctx context.Context, requesterOID primitive.ObjectID) (*models.SupportConversation, error) {
	conv, err := s.repo.FindConversationByUser(ctx, requesterOID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("resolve support conversation: %w", err)
	}
	conv = &models.SupportConversation{UserID: requesterOID, LastMessage: ""}
	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("create support conversation: %w", err)
	}
	return conv, nil
}

func (s *Service) appendMessage(ctx context.Context, conv *models.SupportConversation, senderOID primitive.ObjectID, text string) (*models.SupportMessage, error) {
	msg, err := s.repo.InsertMessage(ctx, &models.SupportMessage{
		SupportChatID: conv.ID,
		SenderID:      senderOID,
		Text:          text,
	})
	if err != nil {
		return nil, fmt.Errorf("persist support message: %w", err)
	}
	if err := s.repo.SetLastMessage(ctx, conv.ID, text); err != nil {
		s.log.Warnw("support summary update failed", "support_chat_id", conv.ID.Hex(), "err", err)
	}
	return msg, nil
}
