package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type mockUserRepo struct {
	users      []models.User
	createErr  error
	deleteErr  error
	deletedIDs []string
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			return &m.users[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ListByRole(_ context.Context, role models.UserRole) ([]models.User, error) {
	var out []models.User
	for _, user := range m.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out, nil
}

func (m *mockUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "generated"
	m.users = append(m.users, *user)
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func newUserUnderTest(repo *mockUserRepo) *UserService {
	return NewUserService(repo, nil, zap.NewNop())
}

func TestUserCreateTeacher(t *testing.T) {
	repo := &mockUserRepo{}
	svc := newUserUnderTest(repo)

	user, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Username: "Mwangi", Password: "long enough", FullName: "J. Mwangi", AssignedClass: "4E",
	})

	require.NoError(t, err)
	assert.Equal(t, "mwangi", user.Username, "usernames are lowercased")
	assert.Equal(t, models.RoleTeacher, user.Role)
	assert.Equal(t, "4E", user.AssignedClass)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("long enough")))
}

func TestUserCreateTeacherDuplicateUsername(t *testing.T) {
	repo := &mockUserRepo{users: []models.User{{ID: "u1", Username: "mwangi", Role: models.RoleTeacher}}}
	svc := newUserUnderTest(repo)

	_, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Username: "MWANGI", Password: "long enough", FullName: "J. Mwangi", AssignedClass: "4E",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserCreateTeacherShortPassword(t *testing.T) {
	svc := newUserUnderTest(&mockUserRepo{})

	_, err := svc.CreateTeacher(context.Background(), CreateTeacherRequest{
		Username: "mwangi", Password: "short", FullName: "J. Mwangi", AssignedClass: "4E",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserListTeachersFiltersAdmins(t *testing.T) {
	repo := &mockUserRepo{users: []models.User{
		{ID: "u1", Username: "head", Role: models.RoleAdmin},
		{ID: "u2", Username: "mwangi", Role: models.RoleTeacher},
	}}
	svc := newUserUnderTest(repo)

	teachers, err := svc.ListTeachers(context.Background())

	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "mwangi", teachers[0].Username)
}

func TestUserDeleteTeacher(t *testing.T) {
	repo := &mockUserRepo{users: []models.User{{ID: "u2", Username: "mwangi", Role: models.RoleTeacher}}}
	svc := newUserUnderTest(repo)

	require.NoError(t, svc.DeleteTeacher(context.Background(), "u2"))
	assert.Equal(t, []string{"u2"}, repo.deletedIDs)
}

func TestUserDeleteTeacherRefusesAdmin(t *testing.T) {
	repo := &mockUserRepo{users: []models.User{{ID: "u1", Username: "head", Role: models.RoleAdmin}}}
	svc := newUserUnderTest(repo)

	err := svc.DeleteTeacher(context.Background(), "u1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deletedIDs)
}

func TestUserDeleteTeacherMissing(t *testing.T) {
	svc := newUserUnderTest(&mockUserRepo{})

	err := svc.DeleteTeacher(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
