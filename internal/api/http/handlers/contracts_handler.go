package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/api/dto"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/auth"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/service"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

const dateLayout = "2006-01-02"

// ContractsHandler manages contract endpoints.
type ContractsHandler struct {
	service *service.ContractService
}

// NewContractsHandler constructs handler.
func NewContractsHandler(contractService *service.ContractService) *ContractsHandler {
	return &ContractsHandler{service: contractService}
}

// Create POST /contracts.
func (h *ContractsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgreementName == "" || req.DivisionID == "" {
		return apperrors.NewValidationError("agreement_name, division_id required", nil)
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", nil)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return apperrors.NewValidationError("invalid end_date", nil)
	}

	input := service.ContractCreateInput{
		AgreementName:   req.AgreementName,
		ContractNumber:  req.ContractNumber,
		CounterpartName: req.CounterpartName,
		Description:     req.Description,
		DivisionID:      req.DivisionID,
		Status:          req.Status,
		StartDate:       startDate,
		EndDate:         endDate,
	}
	contract, err := h.service.CreateContract(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": contractSummary(contract)})
}

// List GET /contracts.
func (h *ContractsHandler) List(c *fiber.Ctx) error {
	filter := parseContractQuery(c)
	contracts, err := h.service.ListContracts(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ContractSummary, 0, len(contracts))
	for i := range contracts {
		items = append(items, contractSummary(&contracts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /contracts/:id.
func (h *ContractsHandler) Get(c *fiber.Ctx) error {
	contract, reminders, err := h.service.GetContract(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractDetail(contract, reminders)})
}

// Update PATCH /contracts/:id.
func (h *ContractsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateContractRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("invalid start_date", nil)
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return apperrors.NewValidationError("invalid end_date", nil)
	}

	input := service.ContractUpdateInput{
		AgreementName:   req.AgreementName,
		ContractNumber:  req.ContractNumber,
		CounterpartName: req.CounterpartName,
		Description:     req.Description,
		Status:          req.Status,
		StartDate:       startDate,
		EndDate:         endDate,
		ClearEndDate:    req.ClearEndDate,
	}
	contract, err := h.service.UpdateContract(c.Context(), principal.User.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractSummary(contract)})
}

// Terminate POST /contracts/:id/terminate.
func (h *ContractsHandler) Terminate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	contract, err := h.service.TerminateContract(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": contractSummary(contract)})
}

func parseContractQuery(c *fiber.Ctx) service.ContractListFilter {
	filter := service.ContractListFilter{}
	if divisionID := c.Query("division_id"); divisionID != "" {
		filter.DivisionID = &divisionID
	}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.ContractStatus(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if within := parseInt(c.Query("expiring_within_days"), 0); within > 0 {
		filter.ExpiringWithin = &within
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseDate(val *string) (*time.Time, error) {
	if val == nil || *val == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func contractSummary(contract *domain.Contract) dto.ContractSummary {
	return dto.ContractSummary{
		ID:              contract.ID,
		TicketNumber:    contract.TicketNumber,
		AgreementName:   contract.AgreementName,
		ContractNumber:  contract.ContractNumber,
		CounterpartName: contract.CounterpartName,
		DivisionID:      contract.DivisionID,
		Status:          contract.Status,
		EndDate:         formatDate(contract.EndDate),
		RegisteredOn:    contract.RegisteredOn.Format(dateLayout),
		CreatedAt:       contract.CreatedAt,
		UpdatedAt:       contract.UpdatedAt,
	}
}

func contractDetail(contract *domain.Contract, reminders []domain.ReminderLog) dto.ContractDetailResponse {
	items := make([]dto.ReminderLogResponse, 0, len(reminders))
	for _, log := range reminders {
		items = append(items, dto.ReminderLogResponse{
			ID:            log.ID,
			ThresholdDays: log.ThresholdDays,
			Recipient:     log.Recipient,
			Subject:       log.Subject,
			Status:        log.Status,
			ErrorMessage:  log.ErrorMessage,
			SentOn:        log.SentOn.Format(dateLayout),
			CreatedAt:     log.CreatedAt,
		})
	}
	return dto.ContractDetailResponse{
		ContractSummary: contractSummary(contract),
		Description:     contract.Description,
		StartDate:       formatDate(contract.StartDate),
		Reminders:       items,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}
