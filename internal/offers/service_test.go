package offers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/models"
	"github.com/erfrost/playreal-backend/internal/repository"
)

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[primitive.ObjectID]*models.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[primitive.ObjectID]*models.Offer)}
}

func (r *fakeOfferRepo) Create(_ context.Context, o *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.OfferPending
	}
	r.offers[o.ID] = o
	return nil
}

func (r *fakeOfferRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (r *fakeOfferRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Offer
	for _, o := range r.offers {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByBooster(_ context.Context, boosterID primitive.ObjectID) ([]*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Offer
	for _, o := range r.offers {
		if o.BoosterID == boosterID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListPendingByGames(_ context.Context, gameIDs []primitive.ObjectID) ([]*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Offer
	for _, o := range r.offers {
		if o.Status != models.OfferPending {
			continue
		}
		for _, g := range gameIDs {
			if o.GameID == g {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) SetStatus(_ context.Context, id primitive.ObjectID, status string, boosterID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	if !boosterID.IsZero() {
		o.BoosterID = boosterID
	}
	return nil
}

type fakeConvRepo struct {
	mu    sync.Mutex
	convs []*models.Conversation
}

func (r *fakeConvRepo) Create(_ context.Context, c *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = primitive.NewObjectID()
	r.convs = append(r.convs, c)
	return nil
}

func (r *fakeConvRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeConvRepo) FindByUsers(_ context.Context, a, b primitive.ObjectID) (*models.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.convs {
		if len(c.Users) == 2 &&
			((c.Users[0] == a && c.Users[1] == b) || (c.Users[0] == b && c.Users[1] == a)) {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeConvRepo) ListForUser(_ context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	return nil, nil
}

func (r *fakeConvRepo) SetLastMessage(_ context.Context, _ primitive.ObjectID, _ string) error {
	return nil
}

func (r *fakeConvRepo) Save(_ context.Context, _ *models.Conversation) error { return nil }

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmailAndRole(_ context.Context, _, _ string) (*models.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, _ primitive.ObjectID, _ bson.M) error {
	return nil
}

func (r *fakeUserRepo) SetOnlineStatus(_ context.Context, _ primitive.ObjectID, _ bool, _ time.Time) error {
	return nil
}

func (r *fakeUserRepo) ListBoostersByGame(_ context.Context, _ primitive.ObjectID) ([]*models.User, error) {
	return nil, nil
}

type fakeCatalogRepo struct {
	games    map[primitive.ObjectID]*models.Game
	services map[primitive.ObjectID]*models.CatalogService
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		games:    make(map[primitive.ObjectID]*models.Game),
		services: make(map[primitive.ObjectID]*models.CatalogService),
	}
}

func (r *fakeCatalogRepo) ListGames(_ context.Context) ([]*models.Game, error) { return nil, nil }

func (r *fakeCatalogRepo) FindGame(_ context.Context, id primitive.ObjectID) (*models.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return g, nil
}

func (r *fakeCatalogRepo) ListServices(_ context.Context, _ primitive.ObjectID) ([]*models.CatalogService, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) FindService(_ context.Context, id primitive.ObjectID) (*models.CatalogService, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

type world struct {
	client  *models.User
	booster *models.User
	game    *models.Game
	catSvc  *models.CatalogService
	offers  *fakeOfferRepo
	convs   *fakeConvRepo
	svc     *Service
}

func newWorld() *world {
	client := &models.User{ID: primitive.NewObjectID(), Nickname: "client1", Role: models.RoleUser}
	booster := &models.User{ID: primitive.NewObjectID(), Nickname: "booster1", Role: models.RoleBooster}
	game := &models.Game{ID: primitive.NewObjectID(), Name: "Dota 2"}
	catSvc := &models.CatalogService{
		ID:           primitive.NewObjectID(),
		GameID:       game.ID,
		Name:         "MMR Boost",
		BasePrice:    500,
		BaseMMRPrice: 100,
		BaseMMRDays:  1,
	}

	offers := newFakeOfferRepo()
	convs := &fakeConvRepo{}
	users := newFakeUserRepo(client, booster)
	cat := newFakeCatalogRepo()
	cat.games[game.ID] = game
	cat.services[catSvc.ID] = catSvc

	return &world{
		client:  client,
		booster: booster,
		game:    game,
		catSvc:  catSvc,
		offers:  offers,
		convs:   convs,
		svc:     NewService(offers, convs, users, cat, zap.NewNop().Sugar()),
	}
}

func TestCreateOffers(t *testing.T) {
	w := newWorld()

	created, err := w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, models.OfferPending, created[0].Status)
	assert.Equal(t, w.game.ID, created[0].GameID, "game is taken from the service, not the client")
}

func TestCreateOffersValidation(t *testing.T) {
	w := newWorld()

	_, err := w.svc.Create(context.Background(), w.booster.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
	})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied, "boosters cannot post orders")

	_, err = w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1500, 1000}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPayload, "rating range must climb")

	_, err = w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: primitive.NewObjectID().Hex(), RatingRange: []int{1000, 1500}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPayload, "unknown service")

	// a bad line anywhere rejects the whole cart
	_, err = w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{2000, 2000}},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPayload)
	assert.Empty(t, w.offers.offers)
}

func TestListPendingRequiresBooster(t *testing.T) {
	w := newWorld()

	_, err := w.svc.ListPending(context.Background(), w.client.ID.Hex(), []string{w.game.ID.Hex()})
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestListPendingFiltersByGameAndStatus(t *testing.T) {
	w := newWorld()

	created, err := w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1500, 2000}},
	})
	require.NoError(t, err)

	// one gets accepted, so it must disappear from the pending feed
	_, err = w.svc.Accept(context.Background(), w.booster.ID.Hex(), created[0].ID.Hex())
	require.NoError(t, err)

	views, err := w.svc.ListPending(context.Background(), w.booster.ID.Hex(), []string{w.game.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, created[1].ID, views[0].ID)
	assert.Equal(t, "MMR Boost", views[0].Title)
	assert.Equal(t, "Dota 2", views[0].GameName)
	assert.Equal(t, "client1", views[0].UserName)
	assert.Equal(t, 1000, views[0].Price, "base 500 + range 500")
}

func TestAcceptOpensConversationOnce(t *testing.T) {
	w := newWorld()

	created, err := w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1500, 2000}},
	})
	require.NoError(t, err)

	res, err := w.svc.Accept(context.Background(), w.booster.ID.Hex(), created[0].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.OfferAtWork, res.Offer.Status)
	assert.Equal(t, w.booster.ID, res.Offer.BoosterID)
	assert.NotEmpty(t, res.ChatID)
	assert.Len(t, w.convs.convs, 1)

	// accepting a second offer from the same client reuses the chat
	res2, err := w.svc.Accept(context.Background(), w.booster.ID.Hex(), created[1].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, res.ChatID, res2.ChatID)
	assert.Len(t, w.convs.convs, 1)
}

func TestAcceptRejectsNonBooster(t *testing.T) {
	w := newWorld()

	created, err := w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
	})
	require.NoError(t, err)

	_, err = w.svc.Accept(context.Background(), w.client.ID.Hex(), created[0].ID.Hex())
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestListPersonalByRole(t *testing.T) {
	w := newWorld()

	created, err := w.svc.Create(context.Background(), w.client.ID.Hex(), []CreateInput{
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1000, 1500}},
		{ServiceID: w.catSvc.ID.Hex(), RatingRange: []int{1500, 2000}},
	})
	require.NoError(t, err)
	_, err = w.svc.Accept(context.Background(), w.booster.ID.Hex(), created[0].ID.Hex())
	require.NoError(t, err)

	mine, err := w.svc.ListPersonal(context.Background(), w.client.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, mine, 2, "clients see every offer they posted")

	work, err := w.svc.ListPersonal(context.Background(), w.booster.ID.Hex())
	require.NoError(t, err)
	require.Len(t, work, 1, "boosters see only accepted work")
	assert.Equal(t, "booster1", work[0].BoosterName)
}
