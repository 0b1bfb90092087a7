package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type mockAuthRepo struct {
	users           map[string]*models.User
	lastLoginCalls  int
	updateLoginErr  error
	findUsernameErr error
}

func (m *mockAuthRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if m.findUsernameErr != nil {
		return nil, m.findUsernameErr
	}
	user, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockAuthRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) UpdateLastLogin(_ context.Context, _ string, _ time.Time) error {
	m.lastLoginCalls++
	return m.updateLoginErr
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthUnderTest(t *testing.T) (*AuthService, *mockAuthRepo) {
	t.Helper()
	repo := &mockAuthRepo{users: map[string]*models.User{
		"mwangi": {
			ID:            "u-t1",
			Username:      "mwangi",
			PasswordHash:  hashPassword(t, "correct horse"),
			FullName:      "J. Mwangi",
			Role:          models.RoleTeacher,
			AssignedClass: "4E",
			Active:        true,
		},
	}}
	svc := NewAuthService(repo, nil, zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "gradebook-api",
	})
	return svc, repo
}

func TestAuthLogin(t *testing.T) {
	svc, repo := newAuthUnderTest(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "correct horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "u-t1", resp.User.ID)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)
	assert.Equal(t, "4E", resp.User.AssignedClass)
	assert.Equal(t, 1, repo.lastLoginCalls)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthUnderTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "wrong"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthUnderTest(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "whatever"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, repo := newAuthUnderTest(t)
	repo.users["mwangi"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "correct horse"})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthLoginSurvivesLastLoginFailure(t *testing.T) {
	svc, repo := newAuthUnderTest(t)
	repo.updateLoginErr = assert.AnError

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "correct horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthValidateTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthUnderTest(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "correct horse"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, "u-t1", claims.UserID)
	assert.Equal(t, "mwangi", claims.Username)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "4E", claims.AssignedClass)
}

func TestAuthValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := newAuthUnderTest(t)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "mwangi", Password: "correct horse"})
	require.NoError(t, err)

	other := NewAuthService(&mockAuthRepo{}, nil, zap.NewNop(), AuthConfig{TokenSecret: "other-secret", TokenExpiry: time.Hour})
	_, err = other.ValidateToken(resp.AccessToken)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenGarbage(t *testing.T) {
	svc, _ := newAuthUnderTest(t)

	_, err := svc.ValidateToken("not-a-token")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
