package support

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/metrics"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/ws"
)

// OperatorMessagePayload is the operator's inbound "message" body. The
// requester id names the thread the reply belongs to; a requester's own
// message carries a bare string instead.
type OperatorMessagePayload struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Gateway owns the support websocket channel.
type Gateway struct {
	reg *ws.Registry
	svc *Service

	pingInterval   time.Duration
	writeDeadline  time.Duration
	maxMessageSize int64

	log *zap.SugaredLogger
}

func NewGateway(
	reg *ws.Registry,
	svc *Service,
	pingInterval, writeDeadline time.Duration,
	maxMessageSize int64,
	log *zap.SugaredLogger,
) *Gateway {
	return &Gateway{
		reg:            reg,
		svc:            svc,
		pingInterval:   pingInterval,
		writeDeadline:  writeDeadline,
		maxMessageSize: maxMessageSize,
		log:            log,
	}
}

func (g *Gateway) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		userID := conn.Query("userId")
		if userID == "" {
			_ = conn.Close()
			return
		}

		role, err := g.svc.Classify(context.Background(), userID)
		if err != nil {
			// Unknown identity: the connection is never registered.
			_ = conn.WriteJSON(ws.ErrorEnvelope(errText(err)))
			_ = conn.Close()
			return
		}

		connID := uuid.NewString()
		client := ws.NewClient(conn, g.pingInterval, g.writeDeadline)
		g.reg.Register(connID, userID, role, client)
		metrics.ActiveConnections.WithLabelValues("support").Inc()

		defer func() {
			g.reg.Unregister(connID)
			metrics.ActiveConnections.WithLabelValues("support").Dec()
			client.Close()
			_ = conn.Close()
		}()

		go client.WritePump()
		g.readLoop(conn, client, connID, userID)
	}
}

func (g *Gateway) readLoop(conn *websocket.Conn, client *ws.Client, connID, userID string) {
	conn.SetReadLimit(g.maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * g.pingInterval))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var env ws.InboundEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		if env.Type != ws.EventMessage {
			continue
		}

		entry, ok := g.reg.Lookup(connID)
		if !ok {
			return
		}
		msg, requesterID, err := g.post(entry, userID, env.Payload)
		if err != nil {
			client.Send(ws.ErrorEnvelope(errText(err)))
			continue
		}
		if msg == nil {
			continue
		}
		metrics.MessagesSent.WithLabelValues("support").Inc()
		g.svc.Route(entry, msg, requesterID)
	}
}

func (g *Gateway) post(entry *ws.Entry, userID string, raw json.RawMessage) (*models.SupportMessage, string, error) {
	if entry.Role == ws.RoleOperator {
		var p OperatorMessagePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, "", apperrors.ErrInvalidPayload
		}
		return g.svc.PostAsOperator(context.Background(), userID, p.UserID, p.Text)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, "", apperrors.ErrInvalidPayload
	}
	return g.svc.PostAsRequester(context.Background(), userID, text)
}

func errText(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrConversationNotFound),
		errors.Is(err, apperrors.ErrInvalidPayload),
		errors.Is(err, apperrors.ErrAccessDenied):
		return err.Error()
	default:
		return apperrors.ErrInternal.Error()
	}
}
