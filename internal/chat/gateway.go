package chat

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
	"github.com/erfrost/playreal-backend/internal/ws"
)

// Gateway owns the chat websocket channel: connect-time registration,
// presence transitions and dispatch of inbound events.
type Gateway struct {
	reg      *ws.Registry
	presence *PresenceService
	svc      *Service

	pingInterval   time.Duration
	writeDeadline  time.Duration
	maxMessageSize int64

	log *zap.SugaredLogger
}

func NewGateway(
	reg *ws.Registry,
	presence *PresenceService,
	svc *Service,
	pingInterval, writeDeadline time.Duration,
	maxMessageSize int64,
	log *zap.SugaredLogger,
) *Gateway {
	return &Gateway{
		reg:            reg,
		presence:       presence,
		svc:            svc,
		pingInterval:   pingInterval,
		writeDeadline:  writeDeadline,
		maxMessageSize: maxMessageSize,
		log:            log,
	}
}

// Handler runs for the lifetime of one chat connection. A missing userId
// query parameter closes the socket before any registration.
func (g *Gateway) Handler() func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		userID := conn.Query("userId")
		if userID == "" {
			_ = conn.Close()
			return
		}

		connID := uuid.NewString()
		client := ws.NewClient(conn, g.pingInterval, g.writeDeadline)
		g.reg.Register(connID, userID, ws.RoleRegular, client)
		metrics.ActiveConnections.WithLabelValues("chat").Inc()

		defer func() {
			if err := g.presence.SetOnlineStatus(context.Background(), userID, false); err != nil {
				g.log.Warnw("offline transition failed", "user_id", userID, "err", err)
			}
			g.reg.Unregister(connID)
			metrics.ActiveConnections.WithLabelValues("chat").Dec()
			client.Close()
			_ = conn.Close()
		}()

		if err := g.presence.SetOnlineStatus(context.Background(), userID, true); err != nil {
			client.Send(ws.ErrorEnvelope(errText(err)))
		}

		go client.WritePump()
		g.readLoop(conn, client, userID)
	}
}

func (g *Gateway) readLoop(conn *websocket.Conn, client *ws.Client, userID string) {
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

		switch env.Type {
		case ws.EventMessage:
			var p MessagePayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				client.Send(ws.ErrorEnvelope(errText(apperrors.ErrInvalidPayload)))
				continue
			}
			if err := g.svc.SendMessage(context.Background(), client, userID, p); err != nil {
				client.Send(ws.ErrorEnvelope(errText(err)))
				continue
			}
			metrics.MessagesSent.WithLabelValues("chat").Inc()
		case ws.EventRead:
			var p ReadPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				client.Send(ws.ErrorEnvelope(errText(apperrors.ErrInvalidPayload)))
				continue
			}
			if err := g.svc.ReadMessages(context.Background(), p); err != nil {
				client.Send(ws.ErrorEnvelope(errText(err)))
			}
		}
	}
}

// errText maps a service error onto the human-readable error event body.
// Unexpected internals are not leaked to the client.
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
