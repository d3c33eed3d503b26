package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
)

// RemindersHandler exposes a manual trigger for the reminder sweep. The sent
// ledger makes repeated runs safe within the same day.
type RemindersHandler struct {
	service *service.ReminderService
}

// NewRemindersHandler constructs handler.
func NewRemindersHandler(reminderService *service.ReminderService) *RemindersHandler {
	return &RemindersHandler{service: reminderService}
}

// Run POST /reminders/run.
func (h *RemindersHandler) Run(c *fiber.Ctx) error {
	if err := h.service.Run(c.Context()); err != nil {
		return err
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "completed"}})
}
