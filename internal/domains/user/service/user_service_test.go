package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"marketplace-backend/internal/domains/user/model"
	"marketplace-backend/internal/domains/user/repository"
	"marketplace-backend/pkg/jwt"
)

// --- Mock implementations ---

var _ repository.UserRepository = (*mockUserRepo)(nil)

type mockUserRepo struct {
	byID    map[int64]*model.User
	byPhone map[string]*model.User
	nextID  int64
}

func newMockUserRepo(users ...*model.User) *mockUserRepo {
	m := &mockUserRepo{
		byID:    make(map[int64]*model.User),
		byPhone: make(map[string]*model.User),
	}
	for _, u := range users {
		m.byID[u.ID] = u
		m.byPhone[u.Phone] = u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, exists := m.byPhone[user.Phone]; exists {
		return model.ErrPhoneAlreadyExists
	}
	m.nextID++
	user.ID = m.nextID
	m.byID[user.ID] = user
	m.byPhone[user.Phone] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByPhone(_ context.Context, phone string) (*model.User, error) {
	u, ok := m.byPhone[phone]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, id int64, name *string, email *string) (*model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = email
	}
	return u, nil
}

func (m *mockUserRepo) UpdateFCMToken(_ context.Context, id int64, fcmToken string) error {
	u, ok := m.byID[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.FCMToken = &fcmToken
	return nil
}

// --- Helpers ---

func testManager() *jwt.Manager {
	return jwt.NewManager("test-secret", 15, 168)
}

func registration() model.RegisterRequest {
	return model.RegisterRequest{
		Phone:    "9876543210",
		Password: "s3cret-pass",
		Name:     "Asha Deshmukh",
		UserType: model.UserTypeCustomer,
	}
}

// --- Registration ---

func TestRegister_IssuesTokenPair(t *testing.T) {
	repo := newMockUserRepo()
	manager := testManager()
	svc := NewUserService(repo, manager)

	resp, err := svc.Register(context.Background(), registration())

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "9876543210", resp.User.Phone)
	assert.True(t, resp.User.IsActive)

	claims, err := manager.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.UserTypeCustomer, claims.UserType)

	refreshClaims, err := manager.ValidateRefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshClaims.UserID)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	resp, err := svc.Register(context.Background(), registration())

	require.NoError(t, err)
	stored := repo.byID[resp.User.ID]
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
}

func TestRegister_DuplicatePhone(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registration())

	require.ErrorIs(t, err, model.ErrPhoneAlreadyExists)
}

func TestRegister_RejectsAdminType(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	req := registration()
	req.UserType = model.UserTypeAdmin

	_, err := svc.Register(context.Background(), req)

	var userErr *model.UserError
	require.ErrorAs(t, err, &userErr)
}

func TestRegister_ShortPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	req := registration()
	req.Password = "short"

	_, err := svc.Register(context.Background(), req)

	var userErr *model.UserError
	require.ErrorAs(t, err, &userErr)
}

// --- Login ---

func TestLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Phone:    "9876543210",
		Password: "s3cret-pass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Asha Deshmukh", resp.User.Name)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	_, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Phone:    "9876543210",
		Password: "wrong-pass",
	})

	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_UnknownPhone(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Phone:    "9999999999",
		Password: "whatever",
	})

	// Same error as a wrong password, so callers cannot probe numbers.
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	resp, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)
	repo.byID[resp.User.ID].IsActive = false

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Phone:    "9876543210",
		Password: "s3cret-pass",
	})

	require.ErrorIs(t, err, model.ErrUserInactive)
}

// --- Token refresh ---

func TestRefreshToken(t *testing.T) {
	repo := newMockUserRepo()
	manager := testManager()
	svc := NewUserService(repo, manager)

	registered, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	resp, err := svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})

	require.NoError(t, err)
	claims, err := manager.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	registered, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)

	// An access token is not accepted where a refresh token belongs.
	_, err = svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: registered.AccessToken,
	})

	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestRefreshToken_WrongSecret(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	forged, err := jwt.NewManager("other-secret", 15, 168).GenerateRefreshToken(1)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: forged,
	})

	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestRefreshToken_DeactivatedAccount(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewUserService(repo, testManager())

	registered, err := svc.Register(context.Background(), registration())
	require.NoError(t, err)
	repo.byID[registered.User.ID].IsActive = false

	_, err = svc.RefreshToken(context.Background(), model.RefreshTokenRequest{
		RefreshToken: registered.RefreshToken,
	})

	require.ErrorIs(t, err, model.ErrUserInactive)
}
