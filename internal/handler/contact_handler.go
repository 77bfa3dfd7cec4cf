package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// ContactHandler handles the public contact form and newsletter opt-ins.
type ContactHandler struct {
	contacts   service.ContactService
	newsletter service.NewsletterService
	logger     zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(contacts service.ContactService, newsletter service.NewsletterService, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts:   contacts,
		newsletter: newsletter,
		logger:     logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires the marketing routes.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("/contact", h.submit)
	router.Post("/newsletter", h.subscribe)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	var payload dto.ContactRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.contacts.Submit(c.Context(), payload, c.IP())
	if err != nil {
		var rejection *service.GateRejection
		switch {
		case errors.Is(err, service.ErrContactSpam):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrDuplicateSubmission):
			return utils.SendError(c, fiber.StatusTooManyRequests, "duplicate submission")
		case errors.As(err, &rejection):
			requestLogger(h.logger, c).Warn().
				Str("reason", rejection.Reason).
				Msg("contact message rejected by fraud gate")
			return utils.SendError(c, fiber.StatusBadRequest, "submission could not be verified")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to process contact message")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit contact form")
		}
	}

	return utils.SendSuccess(c, "contact message accepted", response)
}

func (h *ContactHandler) subscribe(c *fiber.Ctx) error {
	var payload dto.NewsletterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.newsletter.Subscribe(c.Context(), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid email address")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to subscribe to newsletter")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to subscribe")
	}

	return utils.SendSuccess(c, "subscription recorded", response)
}
