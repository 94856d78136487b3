package class

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	classerrors "go-sms/internal/class/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=class_service.go -destination=mock/class_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, schoolID string, req CreateClassRequest) (ClassResponse, error)
	GetAll(ctx context.Context, schoolID string) ([]ClassResponse, error)
	GetByID(ctx context.Context, schoolID, id string) (ClassResponse, error)
	Update(ctx context.Context, schoolID, id string, req UpdateClassRequest) (ClassResponse, error)
	Delete(ctx context.Context, schoolID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, schoolID string, req CreateClassRequest) (ClassResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cl := &Class{
		ID:           uuid.New(),
		SchoolID:     uuid.MustParse(schoolID),
		Grade:        strings.TrimSpace(req.Grade),
		Section:      strings.ToUpper(strings.TrimSpace(req.Section)),
		AcademicYear: req.AcademicYear,
		Name:         req.Name,
		IsActive:     true,
	}

	if req.ClassTeacherID != "" {
		if err := s.resolveClassTeacher(ctx, qtx, schoolID, req.ClassTeacherID, cl); err != nil {
			return ClassResponse{}, err
		}
	}

	if err := qtx.Create(ctx, cl); err != nil {
		return ClassResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ClassResponse{}, err
	}

	return mapToResponse(*cl), nil
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]ClassResponse, error) {
	rows, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (ClassResponse, error) {
	cl, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return ClassResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*cl), nil
}

func (s *service) Update(ctx context.Context, schoolID, id string, req UpdateClassRequest) (ClassResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClassResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cl, err := qtx.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		return ClassResponse{}, mapRepositoryError(err)
	}

	cl.Name = req.Name
	if req.IsActive != nil {
		cl.IsActive = *req.IsActive
	}
	if req.ClassTeacherID != "" {
		if err := s.resolveClassTeacher(ctx, qtx, schoolID, req.ClassTeacherID, cl); err != nil {
			return ClassResponse{}, err
		}
	}

	if err := qtx.Update(ctx, cl); err != nil {
		return ClassResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return ClassResponse{}, err
	}

	return mapToResponse(*cl), nil
}

func (s *service) Delete(ctx context.Context, schoolID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByIDAndSchool(ctx, schoolID, id); err != nil {
		return mapRepositoryError(err)
	}
	if err := qtx.Delete(ctx, schoolID, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) resolveClassTeacher(ctx context.Context, qtx Repository, schoolID, teacherID string, cl *Class) error {
	belongs, err := qtx.TeacherBelongsToSchool(ctx, schoolID, teacherID)
	if err != nil {
		return err
	}
	if !belongs {
		return classerrors.ErrInvalidClassTeacher
	}
	tid := uuid.MustParse(teacherID)
	cl.ClassTeacherID = &tid
	return nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return classerrors.ErrClassNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_classes_key" {
			return classerrors.ErrDuplicateClass
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_classes_key") {
		return classerrors.ErrDuplicateClass
	}

	return err
}

func mapToResponse(cl Class) ClassResponse {
	resp := ClassResponse{
		ID:           cl.ID.String(),
		SchoolID:     cl.SchoolID.String(),
		Grade:        cl.Grade,
		Section:      cl.Section,
		AcademicYear: cl.AcademicYear,
		Name:         cl.Name,
		IsActive:     cl.IsActive,
		CreatedAt:    cl.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    cl.UpdatedAt.Format(time.RFC3339),
	}
	if cl.ClassTeacherID != nil {
		resp.ClassTeacherID = cl.ClassTeacherID.String()
	}
	return resp
}

func mapToListResponse(rows []Class) []ClassResponse {
	resp := make([]ClassResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
