package api

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/erfrost/playreal-backend/internal/apperrors"
	"github.com/erfrost/playreal-backend/internal/payments"
)

func (s *Server) checkout(c *fiber.Ctx) error {
	var in payments.CheckoutInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = c.Get("Idempotency-Key")
	}
	p, err := s.deps.Payments.Checkout(c.Context(), callerID(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"payment": p})
}

func (s *Server) paymentHistory(c *fiber.Ctx) error {
	list, err := s.deps.Payments.History(c.Context(), callerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"payments": list})
}

// paymentWebhook is the provider callback confirming a payment.
func (s *Server) paymentWebhook(c *fiber.Ctx) error {
	var in struct {
		PaymentID string `json:"paymentId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	if err := s.deps.Payments.Confirm(c.Context(), in.PaymentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}

func (s *Server) uploadFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fail(c, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}

	up, err := s.deps.Media.UploadFile(c.Context(), callerID(c), fh.Filename, ct, data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"file": up})
}

func (s *Server) fileURL(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return fail(c, apperrors.ErrInvalidPayload)
	}
	u, err := s.deps.Media.DownloadURL(c.Context(), key)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"url": u})
}
