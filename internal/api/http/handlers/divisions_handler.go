package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/dto"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

// DivisionsHandler manages division endpoints.
type DivisionsHandler struct {
	service *service.DivisionService
}

// NewDivisionsHandler constructs handler.
func NewDivisionsHandler(divisionService *service.DivisionService) *DivisionsHandler {
	return &DivisionsHandler{service: divisionService}
}

// Create POST /divisions.
func (h *DivisionsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	division, err := h.service.CreateDivision(c.Context(), service.DivisionCreateInput{
		Name: req.Name,
		Code: req.Code,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": divisionResponse(division)})
}

// List GET /divisions.
func (h *DivisionsHandler) List(c *fiber.Ctx) error {
	divisions, err := h.service.ListDivisions(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.DivisionResponse, 0, len(divisions))
	for i := range divisions {
		items = append(items, divisionResponse(&divisions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Update PATCH /divisions/:id.
func (h *DivisionsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateDivisionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	division, err := h.service.UpdateDivision(c.Context(), c.Params("id"), service.DivisionUpdateInput{
		Name:     req.Name,
		Code:     req.Code,
		IsActive: req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": divisionResponse(division)})
}

func divisionResponse(division *domain.Division) dto.DivisionResponse {
	return dto.DivisionResponse{
		ID:        division.ID,
		Name:      division.Name,
		Code:      division.Code,
		IsActive:  division.IsActive,
		CreatedAt: division.CreatedAt,
		UpdatedAt: division.UpdatedAt,
	}
}
