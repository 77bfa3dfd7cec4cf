package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
	"github.com/unilancer-labs/unilancer-api/internal/wizard"
)

// IntakeHandler handles public wizard submissions.
type IntakeHandler struct {
	service service.IntakeService
	logger  zerolog.Logger
}

// NewIntakeHandler constructs an intake handler.
func NewIntakeHandler(service service.IntakeService, logger zerolog.Logger) *IntakeHandler {
	return &IntakeHandler{
		service: service,
		logger:  logger.With().Str("component", "intake_handler").Logger(),
	}
}

// Register wires the public submission routes.
func (h *IntakeHandler) Register(router fiber.Router) {
	router.Post("/applications", h.submitApplication)
	router.Post("/requests", h.submitRequest)
}

func (h *IntakeHandler) submitApplication(c *fiber.Ctx) error {
	var payload dto.ApplicationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.SubmitApplication(c.Context(), payload, c.IP())
	if err != nil {
		return h.submissionError(c, err, "failed to submit application")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application received", response)
}

func (h *IntakeHandler) submitRequest(c *fiber.Ctx) error {
	var payload dto.RequestSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.SubmitRequest(c.Context(), payload, c.IP())
	if err != nil {
		return h.submissionError(c, err, "failed to submit request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "request received", response)
}

func (h *IntakeHandler) submissionError(c *fiber.Ctx, err error, fallback string) error {
	var stepErr *wizard.StepError
	var rejection *service.GateRejection

	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	case errors.As(err, &stepErr):
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", stepErr.Fields)
	case errors.Is(err, service.ErrDuplicateSubmission):
		return utils.SendError(c, fiber.StatusTooManyRequests, "duplicate submission")
	case errors.As(err, &rejection):
		// Clients only see a generic refusal; the reason stays in the logs.
		requestLogger(h.logger, c).Warn().
			Str("reason", rejection.Reason).
			Float64("score", rejection.Score).
			Msg("submission rejected by fraud gate")
		return utils.SendError(c, fiber.StatusBadRequest, "submission could not be verified")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
