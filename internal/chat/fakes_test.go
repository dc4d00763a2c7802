package chat

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmailAndRole(_ context.Context, email, role string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Role == role {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, _ bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	return nil
}

func (r *fakeUserRepo) SetOnlineStatus(_ context.Context, id primitive.ObjectID, online bool, lastOnline time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.OnlineStatus = online
	if !lastOnline.IsZero() {
		u.LastOnlineDate = lastOnline
	}
	return nil
}

func (r *fakeUserRepo) ListBoostersByGame(_ context.Context, _ primitive.ObjectID) ([]*models.User, error) {
	return nil, nil
}

type fakeConversationRepo struct {
	mu    sync.Mutex
	convs map[primitive.ObjectID]*models.Conversation
	saved int
}

func newFakeConversationRepo(convs ...*models.Conversation) *fakeConversationRepo {
	r := &fakeConversationRepo{convs: make(map[primitive.ObjectID]*models.Conversation)}
	for _, c := range convs {
		r.convs[c.ID] = c
	}
	return r
}

func (r *fakeConversationRepo) Create(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.convs[c.ID] = c
	return nil
}

func (r *fakeConversationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeConversationRepo) FindByUsers(_ context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		var hasA, hasB bool
		for _, u := range c.Users {
			if u == a {
				hasA = true
			}
			if u == b {
				hasB = true
			}
		}
		if hasA && hasB {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeConversationRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Conversation
	for _, c := range r.convs {
		for _, u := range c.Users {
			if u == userID {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeConversationRepo) SetLastMessage(_ context.Context, id primitive.ObjectID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.LastMessage = text
	return nil
}

func (r *fakeConversationRepo) Save(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved++
	r.convs[c.ID] = c
	return nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (r *fakeMessageRepo) Insert(_ context.Context, m *models.Message) (*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID primitive.ObjectID) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Message
	for _, m := range r.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) FindUnread(_ context.Context, chatID, recipientID primitive.ObjectID) ([]*models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Message
	for _, m := range r.messages {
		if m.ChatID == chatID && m.RecipientID == recipientID && !m.IsRead {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			m.IsRead = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func (r *fakeMessageRepo) unreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.messages {
		if !m.IsRead {
			n++
		}
	}
	return n
}

// recorder implements ws.Sender and keeps every pushed event.
type recorder struct {
	mu     sync.Mutex
	events []any
}

func (r *recorder) Send(v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, v)
	return true
}

func (r *recorder) all() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]any, len(r.events))
	copy(out, r.events)
	return out
}
