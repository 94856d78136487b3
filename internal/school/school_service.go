package school

import (
	"context"
	"errors"
	"strings"

	schoolerrors "go-sms/internal/school/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*SchoolResponse, error)
	GetByEmail(ctx context.Context, email string) (*SchoolResponse, error)
	Update(ctx context.Context, id string, req UpdateSchoolRequest) (*SchoolResponse, error)
	UpdateSettings(ctx context.Context, id string, req UpdateSchoolSettingsRequest) (*SchoolResponse, error)

	// MonthlyWorkingDays returns the school's payroll divisor override, 0 when unset.
	MonthlyWorkingDays(ctx context.Context, id string) (int, error)

	UpsertAffiliation(ctx context.Context, schoolID string, req UpsertSchoolAffiliationRequest) error
	ListAffiliations(ctx context.Context, schoolID string) ([]SchoolAffiliationResponse, error)
	DeleteAffiliation(ctx context.Context, schoolID string, affType AffiliationType) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*SchoolResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, schoolerrors.ErrInvalidSchoolID
	}

	sch, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schoolerrors.ErrSchoolNotFound
		}
		return nil, err
	}

	return s.mapToResponse(sch), nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*SchoolResponse, error) {
	sch, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schoolerrors.ErrSchoolNotFound
		}
		return nil, err
	}

	return s.mapToResponse(sch), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSchoolRequest) (*SchoolResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, schoolerrors.ErrInvalidSchoolID
	}

	sch, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schoolerrors.ErrSchoolNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		sch.Name = req.Name
	}
	if req.Phone != "" {
		sch.Phone = req.Phone
	}
	if req.Address != "" {
		sch.Address = req.Address
	}
	if req.IsActive != nil {
		sch.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}

	return s.mapToResponse(sch), nil
}

func (s *service) UpdateSettings(ctx context.Context, id string, req UpdateSchoolSettingsRequest) (*SchoolResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, schoolerrors.ErrInvalidSchoolID
	}
	if req.MonthlyWorkingDays < 1 || req.MonthlyWorkingDays > 31 {
		return nil, schoolerrors.ErrInvalidWorkingDays
	}

	sch, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schoolerrors.ErrSchoolNotFound
		}
		return nil, err
	}

	sch.MonthlyWorkingDays = req.MonthlyWorkingDays
	if err := s.repo.Update(ctx, sch); err != nil {
		return nil, err
	}

	return s.mapToResponse(sch), nil
}

func (s *service) MonthlyWorkingDays(ctx context.Context, id string) (int, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return 0, schoolerrors.ErrInvalidSchoolID
	}

	sch, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, schoolerrors.ErrSchoolNotFound
		}
		return 0, err
	}

	return sch.MonthlyWorkingDays, nil
}

func (s *service) UpsertAffiliation(ctx context.Context, schoolID string, req UpsertSchoolAffiliationRequest) error {
	id, err := uuid.Parse(schoolID)
	if err != nil {
		return schoolerrors.ErrInvalidSchoolID
	}

	if req.Type == "" {
		return schoolerrors.ErrInvalidAffiliationType
	}
	if strings.TrimSpace(req.Number) == "" {
		return schoolerrors.ErrMissingRequiredFields
	}

	aff := &SchoolAffiliation{
		SchoolID: id,
		Type:     req.Type,
		Number:   req.Number,
		IssuedAt: req.IssuedAt,
	}

	return s.repo.UpsertAffiliation(ctx, aff)
}

func (s *service) ListAffiliations(ctx context.Context, schoolID string) ([]SchoolAffiliationResponse, error) {
	id, err := uuid.Parse(schoolID)
	if err != nil {
		return nil, schoolerrors.ErrInvalidSchoolID
	}

	affs, err := s.repo.GetAffiliationsBySchoolID(ctx, id)
	if err != nil {
		return nil, err
	}

	var result []SchoolAffiliationResponse
	for _, a := range affs {
		result = append(result, SchoolAffiliationResponse{
			ID:        a.ID.String(),
			Type:      a.Type,
			Number:    a.Number,
			IssuedAt:  a.IssuedAt,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}

	return result, nil
}

func (s *service) DeleteAffiliation(ctx context.Context, schoolID string, affType AffiliationType) error {
	id, err := uuid.Parse(schoolID)
	if err != nil {
		return schoolerrors.ErrInvalidSchoolID
	}
	if affType == "" {
		return schoolerrors.ErrInvalidAffiliationType
	}

	return s.repo.DeleteAffiliation(ctx, id, affType)
}

func (s *service) mapToResponse(sch *School) *SchoolResponse {
	return &SchoolResponse{
		ID:                 sch.ID.String(),
		Name:               sch.Name,
		Code:               sch.Code,
		Email:              sch.Email,
		Phone:              sch.Phone,
		Address:            sch.Address,
		IsActive:           sch.IsActive,
		MonthlyWorkingDays: sch.MonthlyWorkingDays,
	}
}
