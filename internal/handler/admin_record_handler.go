package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// AdminRecordHandler wires the admin review endpoints for one record kind.
// The same handler serves applications and requests; the kind is fixed at
// registration time.
type AdminRecordHandler struct {
	kind      models.RecordKind
	records   service.RecordService
	lifecycle service.LifecycleService
	logger    zerolog.Logger
}

// NewAdminRecordHandler constructs the handler for the given record kind.
func NewAdminRecordHandler(kind models.RecordKind, records service.RecordService, lifecycle service.LifecycleService, logger zerolog.Logger) *AdminRecordHandler {
	return &AdminRecordHandler{
		kind:      kind,
		records:   records,
		lifecycle: lifecycle,
		logger:    logger.With().Str("component", "admin_record_handler").Str("kind", string(kind)).Logger(),
	}
}

// Register attaches the record routes to the router group.
func (h *AdminRecordHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Patch("/:id/status", h.transition)
	router.Patch("/:id/details", h.updateDetails)
}

func (h *AdminRecordHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.RecordListRequest{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
	}

	if h.kind == models.KindApplication {
		response, err := h.records.ListApplications(c.Context(), req)
		if err != nil {
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list applications")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list applications")
		}
		return utils.SendSuccess(c, "applications retrieved", response)
	}

	response, err := h.records.ListRequests(c.Context(), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list requests")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list requests")
	}
	return utils.SendSuccess(c, "requests retrieved", response)
}

func (h *AdminRecordHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload interface{}
	if h.kind == models.KindApplication {
		payload, err = h.records.GetApplication(c.Context(), id)
	} else {
		payload, err = h.records.GetRequest(c.Context(), id)
	}
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "record not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to fetch record")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to fetch record")
	}

	return utils.SendSuccess(c, "record retrieved", payload)
}

func (h *AdminRecordHandler) transition(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.TransitionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.lifecycle.Transition(c.Context(), h.kind, id, payload, actorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnknownStatus):
			return utils.SendError(c, fiber.StatusBadRequest, "unknown status")
		case errors.Is(err, service.ErrTerminalStatus):
			return utils.SendError(c, fiber.StatusConflict, "record is closed; set override to reopen")
		case errors.Is(err, service.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "record not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to change record status")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to change status")
		}
	}

	return utils.SendSuccess(c, "status updated", result)
}

func (h *AdminRecordHandler) updateDetails(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.DetailsPatch
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.lifecycle.UpdateDetails(c.Context(), h.kind, id, payload, actorFromContext(c)); err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrEmptyPatch):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "record not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update record details")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update details")
		}
	}

	return utils.SendSuccess(c, "details updated", nil)
}
