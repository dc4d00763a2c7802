package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/erfrost/playreal-backend/internal/auth"
	"github.com/erfrost/playreal-backend/internal/catalog"
	"github.com/erfrost/playreal-backend/internal/chat"
	"github.com/erfrost/playreal-backend/internal/media"
	"github.com/erfrost/playreal-backend/internal/metrics"
	"github.com/erfrost/playreal-backend/internal/offers"
	"github.com/erfrost/playreal-backend/internal/payments"
	"github.com/erfrost/playreal-backend/internal/support"
	"github.com/erfrost/playreal-backend/internal/users"
)

// Deps bundles everything the HTTP surface serves.
type Deps struct {
	Auth     *auth.Service
	Users    *users.Service
	Chat     *chat.Service
	Presence *chat.PresenceService
	Support  *support.Service
	Catalog  *catalog.Service
	Offers   *offers.Service
	Payments *payments.Service
	Media    *media.Service

	ChatGateway    *chat.Gateway
	SupportGateway *support.Gateway

	RateLimiter *RateLimiter
	Log         *zap.SugaredLogger
}

type Server struct {
	app  *fiber.App
	deps Deps
}

func NewServer(deps Deps) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(RequestLogger(deps.Log))
	if deps.RateLimiter != nil {
		app.Use(deps.RateLimiter.Handler())
	}

	s := &Server{app: app, deps: deps}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get("/metrics", metrics.Handler())

	s.app.Get("/ws/chat", websocket.New(s.deps.ChatGateway.Handler()))
	s.app.Get("/ws/support", websocket.New(s.deps.SupportGateway.Handler()))

	api := s.app.Group("/api")
	authRequired := AuthRequired(s.deps.Auth)

	ar := api.Group("/auth")
	ar.Post("/signUp", s.signUp)
	ar.Post("/signIn", s.signIn)
	ar.Post("/refresh", s.refresh)
	ar.Post("/logout", authRequired, s.logout)

	ur := api.Group("/users")
	ur.Get("/by_id/:userId", s.userByID)
	ur.Get("/presence/:userId", s.userPresence)
	ur.Get("/boosters/:gameId", s.boostersByGame)
	ur.Get("/profile", authRequired, s.profile)
	ur.Get("/base-info", authRequired, s.baseInfo)
	ur.Get("/role", authRequired, s.role)
	ur.Post("/profile/update", authRequired, s.updateProfile)

	cr := api.Group("/chats", authRequired)
	cr.Get("/", s.listChats)
	cr.Get("/chatId", s.chatID)
	cr.Get("/messages/:chatId", s.chatMessages)

	api.Get("/support/messages", authRequired, s.supportHistory)

	api.Get("/games", s.listGames)
	sr := api.Group("/services")
	sr.Get("/by_id/:serviceId", s.serviceByID)
	sr.Get("/:gameId", s.servicesByGame)
	sr.Post("/cartItemPrice", s.cartItemPrice)

	or := api.Group("/offers", authRequired)
	or.Post("/create", s.createOffers)
	or.Post("/all", s.pendingOffers)
	or.Get("/personal", s.personalOffers)
	or.Post("/accept", s.acceptOffer)

	pr := api.Group("/payments")
	pr.Post("/", authRequired, s.checkout)
	pr.Get("/history", authRequired, s.paymentHistory)
	pr.Post("/webhook", s.paymentWebhook)

	if s.deps.Media != nil {
		fr := api.Group("/files", authRequired)
		fr.Post("/upload", s.uploadFile)
		fr.Get("/url", s.fileURL)
	}
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
