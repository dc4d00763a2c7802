package repository

import "errors"

// ErrNotFound is returned by every repository when a filter matches no
// document. Services translate it into their own error vocabulary.
var ErrNotFound = errors.New("not found")

// Collection names.
const (
	ColUsers           = "users"
	ColConversations   = "chats"
	ColMessages        = "messages"
	ColSupportChats    = "support_chats"
	ColSupportMessages = "support_messages"
	ColGames           = "games"
	ColServices        = "services"
	ColOffers          = "offers"
	ColPayments        = "payments"
	ColTokens          = "tokens"
)
