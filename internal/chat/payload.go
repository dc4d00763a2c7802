package chat

import "time"

// MessagePayload is the inbound "message" event of the chat channel.
type MessagePayload struct {
	RecipientID string   `json:"recipient_id"`
	Text        string   `json:"text"`
	Files       []string `json:"files"`
	Audio       string   `json:"audio"`
}

// ReadPayload is the inbound "read" event of the chat channel.
type ReadPayload struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

// PresenceEvent is the outbound "onlineStatus" event pushed to every
// conversation counterpart of a user whose status changed.
type PresenceEvent struct {
	UserID         string    `json:"userId"`
	OnlineStatus   bool      `json:"onlineStatus"`
	LastOnlineDate time.Time `json:"lastOnlineDate"`
}
