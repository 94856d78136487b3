package salary

import (
	"context"
	"database/sql"
	"errors"
	"time"

	salaryerrors "go-sms/internal/salary/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, schoolID string, req CreateSalaryConfigurationRequest) (SalaryConfigurationResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]SalaryConfigurationResponse, error)
	GetHistory(ctx context.Context, schoolID, teacherID string) ([]SalaryConfigurationResponse, error)
	GetActive(ctx context.Context, schoolID, teacherID string) (SalaryConfigurationResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

// Create appends a new configuration and closes the previous active one
// in the same transaction.
func (s *service) Create(ctx context.Context, schoolID string, req CreateSalaryConfigurationRequest) (SalaryConfigurationResponse, error) {
	s.logger.Debug("create salary configuration requested",
		zap.String("school_id", schoolID),
		zap.String("teacher_id", req.TeacherID),
	)

	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		return SalaryConfigurationResponse{}, salaryerrors.ErrInvalidTeacherID
	}
	effectiveFrom, err := time.Parse("2006-01-02", req.EffectiveFrom)
	if err != nil {
		return SalaryConfigurationResponse{}, salaryerrors.ErrInvalidEffectiveFrom
	}

	components, err := parseComponents(req)
	if err != nil {
		return SalaryConfigurationResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create salary configuration begin tx failed", zap.Error(err))
		return SalaryConfigurationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	belongs, err := qtx.TeacherBelongsToSchool(ctx, schoolID, req.TeacherID)
	if err != nil {
		return SalaryConfigurationResponse{}, err
	}
	if !belongs {
		return SalaryConfigurationResponse{}, salaryerrors.ErrTeacherNotInSchool
	}

	prev, err := qtx.FindActiveForUpdate(ctx, schoolID, req.TeacherID)
	if err == nil {
		if err := qtx.Deactivate(ctx, prev.ID.String(), effectiveFrom); err != nil {
			s.logger.Error("deactivate previous salary configuration failed",
				zap.String("config_id", prev.ID.String()),
				zap.Error(err),
			)
			return SalaryConfigurationResponse{}, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SalaryConfigurationResponse{}, err
	}

	cfg := &SalaryConfiguration{
		ID:               uuid.New(),
		SchoolID:         uuid.MustParse(schoolID),
		TeacherID:        teacherID,
		Basic:            components.basic,
		HRA:              components.hra,
		DA:               components.da,
		TA:               components.ta,
		MedicalAllowance: components.medical,
		OtherAllowances:  components.otherAllow,
		PF:               components.pf,
		ESI:              components.esi,
		ProfessionalTax:  components.profTax,
		TDS:              components.tds,
		OtherDeductions:  components.otherDeduct,
		BankName:         req.BankName,
		AccountNumber:    req.AccountNumber,
		IFSC:             req.IFSC,
		IsActive:         true,
		EffectiveFrom:    effectiveFrom,
	}

	if err := qtx.Create(ctx, cfg); err != nil {
		s.logger.Error("create salary configuration persist failed", zap.Error(err))
		return SalaryConfigurationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create salary configuration commit failed", zap.Error(err))
		return SalaryConfigurationResponse{}, err
	}

	s.logger.Info("create salary configuration success",
		zap.String("config_id", cfg.ID.String()),
		zap.String("teacher_id", req.TeacherID),
	)

	return mapToResponse(*cfg), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]SalaryConfigurationResponse, error) {
	cfgs, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(cfgs), nil
}

func (s *service) GetHistory(ctx context.Context, schoolID, teacherID string) ([]SalaryConfigurationResponse, error) {
	if _, err := uuid.Parse(teacherID); err != nil {
		return nil, salaryerrors.ErrInvalidTeacherID
	}

	cfgs, err := s.repo.FindHistoryByTeacher(ctx, schoolID, teacherID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(cfgs), nil
}

func (s *service) GetActive(ctx context.Context, schoolID, teacherID string) (SalaryConfigurationResponse, error) {
	if _, err := uuid.Parse(teacherID); err != nil {
		return SalaryConfigurationResponse{}, salaryerrors.ErrInvalidTeacherID
	}

	cfg, err := s.repo.FindActiveByTeacher(ctx, schoolID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SalaryConfigurationResponse{}, salaryerrors.ErrNoActiveSalaryConfig
		}
		return SalaryConfigurationResponse{}, err
	}
	return mapToResponse(*cfg), nil
}

type components struct {
	basic, hra, da, ta, medical, otherAllow decimal.Decimal
	pf, esi, profTax, tds, otherDeduct      decimal.Decimal
}

func parseComponents(req CreateSalaryConfigurationRequest) (components, error) {
	var c components
	var err error

	parse := func(v string) (decimal.Decimal, error) {
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return decimal.Zero, salaryerrors.ErrInvalidAmount
		}
		return d, nil
	}

	if c.basic, err = parse(req.Basic); err != nil {
		return c, err
	}
	if c.hra, err = parse(req.HRA); err != nil {
		return c, err
	}
	if c.da, err = parse(req.DA); err != nil {
		return c, err
	}
	if c.ta, err = parse(req.TA); err != nil {
		return c, err
	}
	if c.medical, err = parse(req.MedicalAllowance); err != nil {
		return c, err
	}
	if c.otherAllow, err = parse(req.OtherAllowances); err != nil {
		return c, err
	}
	if c.pf, err = parse(req.PF); err != nil {
		return c, err
	}
	if c.esi, err = parse(req.ESI); err != nil {
		return c, err
	}
	if c.profTax, err = parse(req.ProfessionalTax); err != nil {
		return c, err
	}
	if c.tds, err = parse(req.TDS); err != nil {
		return c, err
	}
	if c.otherDeduct, err = parse(req.OtherDeductions); err != nil {
		return c, err
	}
	return c, nil
}

func mapToResponse(cfg SalaryConfiguration) SalaryConfigurationResponse {
	resp := SalaryConfigurationResponse{
		ID:               cfg.ID.String(),
		SchoolID:         cfg.SchoolID.String(),
		TeacherID:        cfg.TeacherID.String(),
		Basic:            cfg.Basic.String(),
		HRA:              cfg.HRA.String(),
		DA:               cfg.DA.String(),
		TA:               cfg.TA.String(),
		MedicalAllowance: cfg.MedicalAllowance.String(),
		OtherAllowances:  cfg.OtherAllowances.String(),
		PF:               cfg.PF.String(),
		ESI:              cfg.ESI.String(),
		ProfessionalTax:  cfg.ProfessionalTax.String(),
		TDS:              cfg.TDS.String(),
		OtherDeductions:  cfg.OtherDeductions.String(),
		BankName:         cfg.BankName,
		AccountNumber:    cfg.AccountNumber,
		IFSC:             cfg.IFSC,
		IsActive:         cfg.IsActive,
		EffectiveFrom:    cfg.EffectiveFrom.Format("2006-01-02"),
	}
	if cfg.EffectiveTo != nil {
		v := cfg.EffectiveTo.Format("2006-01-02")
		resp.EffectiveTo = &v
	}
	return resp
}

func mapToListResponse(cfgs []SalaryConfiguration) []SalaryConfigurationResponse {
	res := make([]SalaryConfigurationResponse, len(cfgs))
	for i, cfg := range cfgs {
		res[i] = mapToResponse(cfg)
	}
	return res
}
