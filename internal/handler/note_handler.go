package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/dto"
	"github.com/unilancer-labs/unilancer-api/internal/middleware"
	"github.com/unilancer-labs/unilancer-api/internal/models"
	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// NoteHandler wires admin note endpoints for one record kind.
type NoteHandler struct {
	kind    models.RecordKind
	service service.AnnotationService
	logger  zerolog.Logger
}

// NewNoteHandler constructs the handler for the given record kind.
func NewNoteHandler(kind models.RecordKind, service service.AnnotationService, logger zerolog.Logger) *NoteHandler {
	return &NoteHandler{
		kind:    kind,
		service: service,
		logger:  logger.With().Str("component", "note_handler").Str("kind", string(kind)).Logger(),
	}
}

// Register attaches the note routes to the record route group. Deletion is
// irreversible and leaves no activity trace, so it stays admin-only.
func (h *NoteHandler) Register(router fiber.Router) {
	router.Get("/:id/notes", h.list)
	router.Post("/:id/notes", h.create)
	router.Delete("/:id/notes/:noteId", middleware.WithAuth(h.delete, middleware.AuthOptions{Role: middleware.AuthRoleAdmin}))
}

func (h *NoteHandler) create(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.NoteCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	note, err := h.service.AddNote(c.Context(), h.kind, id, payload, actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrEmptyNote) {
			return utils.SendError(c, fiber.StatusBadRequest, "note body is required")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create note")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create note")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "note created", note)
}

func (h *NoteHandler) list(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	notes, err := h.service.ListNotes(c.Context(), h.kind, id)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list notes")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notes")
	}

	return utils.SendSuccess(c, "notes retrieved", notes)
}

func (h *NoteHandler) delete(c *fiber.Ctx) error {
	noteID, err := parseUintParam(c, "noteId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.DeleteNote(c.Context(), noteID); err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "note not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete note")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete note")
	}

	return utils.SendSuccess(c, "note deleted", nil)
}
