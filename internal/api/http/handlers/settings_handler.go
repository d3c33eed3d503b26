package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/dto"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

// SettingsHandler manages runtime configuration endpoints.
type SettingsHandler struct {
	settings repository.SettingRepository
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings repository.SettingRepository) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// List GET /settings.
func (h *SettingsHandler) List(c *fiber.Ctx) error {
	settings, err := h.settings.List(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		items = append(items, dto.SettingResponse{
			Key:       s.Key,
			Value:     s.Value,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Put PUT /settings/:key.
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	if key == "" {
		return apperrors.NewValidationError("setting key required", nil)
	}
	var req dto.UpdateSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if key == "ticket_cutoff_time" || key == "reminder_send_time" {
		if _, _, ok := service.ParseClock(req.Value); !ok {
			return apperrors.NewValidationError("value must be HH:MM", nil)
		}
	}
	if err := h.settings.Set(c.Context(), key, req.Value); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"key": key, "value": req.Value}})
}
