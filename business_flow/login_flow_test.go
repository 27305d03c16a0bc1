package businessflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/leadkit/leadkit/app/dto"
	"github.com/leadkit/leadkit/app/services"
	"github.com/leadkit/leadkit/models"
	"github.com/leadkit/leadkit/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo is an in-memory UserRepository keyed on email.
type stubUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins []uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*models.User)}
}

func (r *stubUserRepo) addUser(email, password string, active bool) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &models.User{
		ID:           uint(len(r.byEmail) + 1),
		UUID:         uuid.New(),
		Email:        strings.ToLower(email),
		Name:         "Test User",
		PasswordHash: string(hash),
		IsActive:     &active,
		CreatedAt:    utils.UTCNow(),
	}
	r.byEmail[user.Email] = user
	return user
}

func (r *stubUserRepo) ByID(ctx context.Context, id uint) (*models.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.byEmail))
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, nil
}

func (r *stubUserRepo) Save(ctx context.Context, user *models.User) error {
	r.byEmail[strings.ToLower(user.Email)] = user
	return nil
}

func (r *stubUserRepo) SaveBatch(ctx context.Context, users []*models.User) error {
	for _, u := range users {
		if err := r.Save(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubUserRepo) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	return int64(len(r.byEmail)), nil
}

func (r *stubUserRepo) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.byEmail[strings.ToLower(email)], nil
}

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, userID uint) error {
	r.lastLogins = append(r.lastLogins, userID)
	return nil
}

func newTestLoginFlow(t *testing.T, repo *stubUserRepo) LoginFlow {
	t.Helper()
	tokenService, err := services.NewTokenService(time.Hour, "leadkit-api", "leadkit-dashboard", "test-secret-key-at-least-32-chars")
	require.NoError(t, err)
	return NewLoginFlow(repo, tokenService, nil)
}

func TestLogin_Successful(t *testing.T) {
	repo := newStubUserRepo()
	user := repo.addUser("jane@example.com", "TestPass123!", true)
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Email:    "  Jane@Example.COM ",
		Password: "TestPass123!",
	}, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, "Bearer", result.TokenType)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, int(utils.AccessTokenTTL.Seconds()), result.ExpiresIn)
	assert.Equal(t, "jane@example.com", result.User.Email)
	assert.Equal(t, []uint{user.ID}, repo.lastLogins)
}

func TestLogin_UnknownEmail(t *testing.T) {
	flow := newTestLoginFlow(t, newStubUserRepo())

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "TestPass123!",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsUserNotFound(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("jane@example.com", "TestPass123!", true)
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "WrongPass456!",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsIncorrectPassword(err))
	assert.Empty(t, repo.lastLogins)
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	repo.addUser("jane@example.com", "TestPass123!", false)
	flow := newTestLoginFlow(t, repo)

	result, err := flow.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane@example.com",
		Password: "TestPass123!",
	}, testMetadata())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsAccountInactive(err))
}
