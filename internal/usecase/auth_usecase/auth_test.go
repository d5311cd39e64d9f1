package auth_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	auth "storefront/internal/usecase/auth_usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type AuthUserRepoMock struct{ mock.Mock }

func (m *AuthUserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AuthUserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *AuthUserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *AuthUserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *AuthUserRepoMock) ListCustomers(ctx context.Context, q repo.CustomerListQuery) ([]model.User, int64, error) {
	panic("not used in auth tests")
}

type stubHasher struct{}

func (h *stubHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type stubVerifier struct{ ok bool }

func (v *stubVerifier) Verify(plain string, hashed string) bool { return v.ok }

type stubIssuer struct{}

func (i *stubIssuer) Issue(userID int64, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error) {
	return "token", now.Add(15 * time.Minute), nil
}

type stubIDGen struct{}

func (g *stubIDGen) NewID() string { return "a1b2c3d4-e5f6-7890-0000-000000000000" }

type stubClock struct{}

func (c *stubClock) Now() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

// =====================
// Register
// =====================

func TestRegisterUser_Success(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repo.ErrUserNotFound)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "alice@example.com" &&
			u.Role == model.RoleCustomer &&
			u.CustomerCode == "CUS-A1B2C3D4" &&
			u.MembershipTier == model.TierBronze &&
			u.PasswordHash == "hashed:correct horse battery"
	})).Return(nil)

	uc := auth.NewRegisterUserUsecase(userRepo, &stubHasher{}, &stubIDGen{}, &stubClock{})
	out, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})

	assert.NoError(t, err)
	assert.Equal(t, "CUS-A1B2C3D4", out.User.CustomerCode)
	userRepo.AssertExpectations(t)
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	uc := auth.NewRegisterUserUsecase(new(AuthUserRepoMock), &stubHasher{}, &stubIDGen{}, &stubClock{})

	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "short",
	})

	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{ID: 1}, nil)

	uc := auth.NewRegisterUserUsecase(userRepo, &stubHasher{}, &stubIDGen{}, &stubClock{})
	_, err := uc.Execute(context.Background(), auth.RegisterUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "correct horse battery",
	})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID: 1, Email: "alice@example.com", PasswordHash: "x", IsActive: true, TokenVersion: 3,
	}, nil)

	uc := auth.NewLoginUsecase(userRepo, &stubVerifier{ok: true}, &stubIssuer{}, &stubClock{})
	out, err := uc.Execute(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "pw"})

	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token.AccessToken)
	assert.Equal(t, 3, out.Token.TokenVersion)
	//ハッシュは外に出さない
	assert.Empty(t, out.User.PasswordHash)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID: 1, PasswordHash: "x", IsActive: true,
	}, nil)

	uc := auth.NewLoginUsecase(userRepo, &stubVerifier{ok: false}, &stubIssuer{}, &stubClock{})
	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "bad"})

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "alice@example.com").Return(&model.User{
		ID: 1, PasswordHash: "x", IsActive: false,
	}, nil)

	uc := auth.NewLoginUsecase(userRepo, &stubVerifier{ok: true}, &stubIssuer{}, &stubClock{})
	_, err := uc.Execute(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "pw"})

	assert.ErrorIs(t, err, auth.ErrUserInactive)
}

// =====================
// Logout
// =====================

func TestLogout_BumpsTokenVersion(t *testing.T) {
	userRepo := new(AuthUserRepoMock)
	userRepo.On("IncrementTokenVersion", mock.Anything, int64(1)).Return(nil)

	uc := auth.NewLogoutUsecase(userRepo)
	assert.NoError(t, uc.Execute(context.Background(), 1))
	userRepo.AssertExpectations(t)
}
