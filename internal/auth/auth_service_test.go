package auth_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"go-sms/internal/auth"
	autherrors "go-sms/internal/auth/errors"
	"go-sms/internal/domain"
	"go-sms/internal/teacher"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeAuthRepository struct {
	createFn     func(ctx context.Context, user *auth.User) error
	getByEmailFn func(ctx context.Context, email string) (*auth.User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

func (f *fakeAuthRepository) Create(ctx context.Context, user *auth.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, user)
	}
	return nil
}

func (f *fakeAuthRepository) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeRbacService struct {
	loadedSchools []string
	loadErr       error
}

func (f *fakeRbacService) LoadSchoolPolicy(schoolID string) error {
	f.loadedSchools = append(f.loadedSchools, schoolID)
	return f.loadErr
}

func (f *fakeRbacService) Enforce(req domain.EnforceRequest) (bool, error) {
	return true, nil
}

type fakeTeacherRepository struct {
	findByIDAndSchoolFn func(ctx context.Context, schoolID, id string) (*teacher.Teacher, error)
}

func (f *fakeTeacherRepository) WithTx(tx *sql.Tx) teacher.Repository { return f }

func (f *fakeTeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error { return nil }

func (f *fakeTeacherRepository) FindAllBySchool(ctx context.Context, schoolID string) ([]teacher.Teacher, error) {
	return nil, nil
}

func (f *fakeTeacherRepository) FindOptionsBySchool(ctx context.Context, schoolID string) ([]teacher.Teacher, error) {
	return nil, nil
}

func (f *fakeTeacherRepository) FindByIDAndSchool(ctx context.Context, schoolID, id string) (*teacher.Teacher, error) {
	if f.findByIDAndSchoolFn != nil {
		return f.findByIDAndSchoolFn(ctx, schoolID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTeacherRepository) Update(ctx context.Context, t *teacher.Teacher) error { return nil }

func (f *fakeTeacherRepository) Delete(ctx context.Context, schoolID, id string) error { return nil }

type authServiceDeps struct {
	service     auth.Service
	repo        *fakeAuthRepository
	rbac        *fakeRbacService
	teacherRepo *fakeTeacherRepository
}

func setupAuthServiceTest(t *testing.T) *authServiceDeps {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	repo := &fakeAuthRepository{}
	rbacSvc := &fakeRbacService{}
	teacherRepo := &fakeTeacherRepository{}
	svc := auth.NewService(repo, rbacSvc, teacherRepo)

	return &authServiceDeps{service: svc, repo: repo, rbac: rbacSvc, teacherRepo: teacherRepo}
}

func fixtureUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &auth.User{
		ID:       uuid.New(),
		SchoolID: uuid.New(),
		Name:     "Asha Verma",
		Email:    "asha@greenhill.edu",
		Password: string(hashed),
		Role:     auth.RoleAdmin,
		IsActive: true,
	}
}

func parseClaims(t *testing.T, tokenStr string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	assert.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	return claims
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues both tokens and loads school policy", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		user := fixtureUser(t, "s3cret-pass")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.User, error) {
			assert.Equal(t, user.Email, email)
			return user, nil
		}

		access, refresh, resp, err := deps.service.Login(ctx, user.Email, "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, user.ID.String(), resp.ID)
		assert.Equal(t, auth.RoleAdmin, resp.Role)
		assert.Equal(t, []string{user.SchoolID.String()}, deps.rbac.loadedSchools)

		claims := parseClaims(t, access)
		assert.Equal(t, user.ID.String(), claims["user_id"])
		assert.Equal(t, user.SchoolID.String(), claims["school_id"])
		assert.Equal(t, auth.RoleAdmin, claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		user := fixtureUser(t, "s3cret-pass")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		}

		_, _, _, err := deps.service.Login(ctx, user.Email, "wrong-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
		assert.Empty(t, deps.rbac.loadedSchools)
	})

	t.Run("unknown email", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, _, _, err := deps.service.Login(ctx, "nobody@greenhill.edu", "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New()

	t.Run("admin without teacher link", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		var created *auth.User
		deps.repo.createFn = func(ctx context.Context, user *auth.User) error {
			created = user
			return nil
		}

		resp, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID: schoolID.String(),
			Email:    "admin@greenhill.edu",
			Name:     "Priya Nair",
			Password: "s3cret-pass",
			Role:     "admin",
		})

		assert.NoError(t, err)
		assert.Equal(t, auth.RoleAdmin, resp.Role)
		assert.Empty(t, resp.TeacherID)
		if assert.NotNil(t, created) {
			assert.Nil(t, created.TeacherID)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
		}
		assert.Equal(t, []string{schoolID.String()}, deps.rbac.loadedSchools)
	})

	t.Run("teacher account resolves the teacher link", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		teacherID := uuid.New()

		deps.teacherRepo.findByIDAndSchoolFn = func(ctx context.Context, sid, id string) (*teacher.Teacher, error) {
			assert.Equal(t, schoolID.String(), sid)
			assert.Equal(t, teacherID.String(), id)
			return &teacher.Teacher{ID: teacherID, SchoolID: schoolID}, nil
		}

		resp, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID:  schoolID.String(),
			TeacherID: teacherID.String(),
			Email:     "teacher@greenhill.edu",
			Name:      "Ravi Menon",
			Password:  "s3cret-pass",
			Role:      auth.RoleTeacher,
		})

		assert.NoError(t, err)
		assert.Equal(t, teacherID.String(), resp.TeacherID)
	})

	t.Run("teacher account without a teacher id", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID: schoolID.String(),
			Email:    "teacher@greenhill.edu",
			Name:     "Ravi Menon",
			Password: "s3cret-pass",
			Role:     auth.RoleTeacher,
		})
		assert.ErrorIs(t, err, autherrors.ErrTeacherLinkRequired)
	})

	t.Run("teacher link outside the school", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID:  schoolID.String(),
			TeacherID: uuid.New().String(),
			Email:     "teacher@greenhill.edu",
			Name:      "Ravi Menon",
			Password:  "s3cret-pass",
			Role:      auth.RoleTeacher,
		})
		assert.ErrorIs(t, err, autherrors.ErrTeacherLinkRequired)
	})

	t.Run("unknown role", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID: schoolID.String(),
			Email:    "x@greenhill.edu",
			Name:     "X",
			Password: "s3cret-pass",
			Role:     "JANITOR",
		})
		assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		deps.repo.createFn = func(ctx context.Context, user *auth.User) error {
			return gorm.ErrDuplicatedKey
		}

		_, err := deps.service.Register(ctx, auth.RegisterRequest{
			SchoolID: schoolID.String(),
			Email:    "admin@greenhill.edu",
			Name:     "Priya Nair",
			Password: "s3cret-pass",
			Role:     auth.RoleAdmin,
		})
		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		user := fixtureUser(t, "s3cret-pass")
		deps.repo.getByEmailFn = func(ctx context.Context, email string) (*auth.User, error) {
			return user, nil
		}
		deps.repo.getByIDFn = func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			assert.Equal(t, user.ID, id)
			return user, nil
		}

		_, refresh, _, err := deps.service.Login(ctx, user.Email, "s3cret-pass")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := deps.service.RefreshToken(ctx, refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, user.ID.String(), resp.ID)
	})

	t.Run("garbage token", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, _, _, err := deps.service.RefreshToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": uuid.New().String(),
		})
		signed, err := token.SignedString([]byte("other-secret"))
		assert.NoError(t, err)

		_, _, _, err = deps.service.RefreshToken(ctx, signed)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		deps := setupAuthServiceTest(t)
		user := fixtureUser(t, "s3cret-pass")
		deps.repo.getByIDFn = func(ctx context.Context, id uuid.UUID) (*auth.User, error) {
			return user, nil
		}

		resp, err := deps.service.GetMe(ctx, user.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, user.Email, resp.Email)
	})

	t.Run("malformed user id", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		deps := setupAuthServiceTest(t)

		_, err := deps.service.GetMe(ctx, uuid.New().String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
