package events

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/models"
)

const publishTimeout = 5 * time.Second

// Producer publishes message-sent events to kafka. Publishing is
// best-effort: a broker outage is logged and never surfaces to the
// message send path.
type Producer struct {
	writer *kafkago.Writer
	log    *zap.SugaredLogger
}

func NewProducer(brokers []string, topic string, log *zap.SugaredLogger) *Producer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
		Async:        false,
	}
	return &Producer{writer: w, log: log}
}

type messageSentEvent struct {
	MessageID   string    `json:"message_id"`
	ChatID      string    `json:"chat_id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	HasFiles    bool      `json:"has_files"`
	SentAt      time.Time `json:"sent_at"`
}

// MessageSent publishes asynchronously and returns immediately.
func (p *Producer) MessageSent(_ context.Context, m *models.Message) {
	evt := messageSentEvent{
		MessageID:   m.ID.Hex(),
		ChatID:      m.ChatID.Hex(),
		SenderID:    m.SenderID.Hex(),
		RecipientID: m.RecipientID.Hex(),
		HasFiles:    len(m.Files) > 0,
		SentAt:      m.CreatedAt,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		b, err := json.Marshal(evt)
		if err != nil {
			p.log.Warnw("event marshal failed", "message_id", evt.MessageID, "err", err)
			return
		}
		msg := kafkago.Message{
			Key:   []byte(evt.ChatID),
			Value: b,
			Time:  time.Now(),
		}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warnw("event publish failed", "message_id", evt.MessageID, "err", err)
		}
	}()
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
