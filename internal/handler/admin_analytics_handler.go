package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/unilancer-labs/unilancer-api/internal/service"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

// AdminAnalyticsHandler exposes the dashboard summary.
type AdminAnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAdminAnalyticsHandler constructs an analytics handler.
func NewAdminAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AdminAnalyticsHandler {
	return &AdminAnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_analytics_handler").Logger(),
	}
}

// Register attaches the analytics routes.
func (h *AdminAnalyticsHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *AdminAnalyticsHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build analytics summary")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build summary")
	}

	return utils.SendSuccess(c, "summary retrieved", summary)
}
