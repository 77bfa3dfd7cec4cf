package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// AssignmentHandler wires request-to-freelancer assignment endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment routes to the admin request group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("/:id/assignments", h.list)
	router.Post("/:id/assignments", h.create)
	router.Get("/:id/candidates", h.candidates)
	router.Patch("/assignments/:assignmentId/status", h.updateStatus)
	router.Delete("/assignments/:assignmentId", h.remove)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.Assign(c.Context(), requestID, payload, actorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "record not found")
		case errors.Is(err, service.ErrFreelancerNotEligible):
			return utils.SendError(c, fiber.StatusConflict, "freelancer is not accepted")
		case errors.Is(err, service.ErrAlreadyAssigned):
			return utils.SendError(c, fiber.StatusConflict, "freelancer already assigned")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to create assignment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create assignment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	assignments, err := h.service.List(c.Context(), requestID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list assignments")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list assignments")
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) candidates(c *fiber.Ctx) error {
	requestID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	candidates, err := h.service.Candidates(c.Context(), requestID, c.Query("search"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list candidates")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list candidates")
	}

	return utils.SendSuccess(c, "candidates retrieved", candidates)
}

func (h *AssignmentHandler) updateStatus(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.AssignmentStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	assignment, err := h.service.UpdateStatus(c.Context(), assignmentID, payload, actorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid status")
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update assignment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update assignment")
		}
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) remove(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "assignmentId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Remove(c.Context(), assignmentID, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "assignment not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove assignment")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove assignment")
	}

	return utils.SendSuccess(c, "assignment removed", nil)
}
