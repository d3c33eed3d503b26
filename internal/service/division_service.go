package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/domain"
	"github.com/rsyahbudin/pks-legal-PML-sub001/internal/repository"
	apperrors "github.com/rsyahbudin/pks-legal-PML-sub001/pkg/util/errorutil"
)

// DivisionService manages organizational units.
type DivisionService struct {
	divisions repository.DivisionRepository
	logger    *zap.Logger
}

// NewDivisionService constructs the service.
func NewDivisionService(divisions repository.DivisionRepository, logger *zap.Logger) *DivisionService {
	return &DivisionService{divisions: divisions, logger: logger}
}

// DivisionCreateInput carries fields for a new division.
type DivisionCreateInput struct {
	Name string
	Code string
}

// DivisionUpdateInput carries optional fields for a division update.
type DivisionUpdateInput struct {
	Name     *string
	Code     *string
	IsActive *bool
}

// CreateDivision registers a division. The code is normalized to upper case
// because it is embedded in ticket numbers.
func (s *DivisionService) CreateDivision(ctx context.Context, input DivisionCreateInput) (*domain.Division, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if name == "" || code == "" {
		return nil, apperrors.NewValidationError("name and code are required", nil)
	}

	division := &domain.Division{
		Name:     name,
		Code:     code,
		IsActive: true,
	}
	if err := s.divisions.Create(ctx, division); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("division created", zap.String("division_id", division.ID), zap.String("code", division.Code))
	return division, nil
}

// UpdateDivision applies a partial update.
func (s *DivisionService) UpdateDivision(ctx context.Context, id string, input DivisionUpdateInput) (*domain.Division, error) {
	division, err := s.divisions.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Name != nil {
		division.Name = strings.TrimSpace(*input.Name)
	}
	if input.Code != nil {
		division.Code = strings.ToUpper(strings.TrimSpace(*input.Code))
	}
	if input.IsActive != nil {
		division.IsActive = *input.IsActive
	}
	if division.Name == "" || division.Code == "" {
		return nil, apperrors.NewValidationError("name and code cannot be empty", nil)
	}
	division.UpdatedAt = time.Now().UTC()
	if err := s.divisions.Update(ctx, division); err != nil {
		return nil, apperrors.MapError(err)
	}
	return division, nil
}

// ListDivisions returns active divisions.
func (s *DivisionService) ListDivisions(ctx context.Context) ([]domain.Division, error) {
	divisions, err := s.divisions.ListActive(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return divisions, nil
}
