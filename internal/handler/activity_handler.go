package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/repository"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// ActivityHandler exposes the read side of the audit trail.
type ActivityHandler struct {
	service service.AnnotationService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(service service.AnnotationService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// RegisterGlobal attaches the cross-record activity feed.
func (h *ActivityHandler) RegisterGlobal(router fiber.Router) {
	router.Get("/activity", h.feed)
}

// RegisterForKind attaches the per-record activity listing.
func (h *ActivityHandler) RegisterForKind(router fiber.Router, kind models.RecordKind) {
	router.Get("/:id/activity", func(c *fiber.Ctx) error {
		id, err := parseUintParam(c, "id")
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
		}
		return h.list(c, repository.ActivityLogFilter{RecordKind: kind, RecordID: id})
	})
}

func (h *ActivityHandler) feed(c *fiber.Ctx) error {
	return h.list(c, repository.ActivityLogFilter{
		RecordKind: models.RecordKind(c.Query("kind")),
		Action:     c.Query("action"),
	})
}

func (h *ActivityHandler) list(c *fiber.Ctx, filter repository.ActivityLogFilter) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	filter.Page = page
	filter.PageSize = pageSize

	response, err := h.service.ListActivity(c.Context(), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity")
	}

	return utils.SendSuccess(c, "activity retrieved", response)
}
