package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ProffsKontakt/provision-tracker-sub000/app/models"
)

type stubUserRepository struct {
	users map[string]*models.User
}

func (s *stubUserRepository) Create(user *models.User) error { return nil }

func (s *stubUserRepository) GetByID(id uint) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) GetByEmail(email string) (*models.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepository) Update(user *models.User) error { return nil }

func (s *stubUserRepository) List(offset, limit int) ([]models.User, error) { return nil, nil }

func (s *stubUserRepository) Count() (int64, error) { return 0, nil }

func stubRepoWithUser(t *testing.T, email, password, role, status string) *stubUserRepository {
	t.Helper()
	hash, err := models.HashPassword(password)
	require.NoError(t, err)
	return &stubUserRepository{users: map[string]*models.User{
		email: {Email: email, Password: hash, Role: role, Status: status},
	}}
}

func TestAdminAuthorizerAcceptsActiveAdmin(t *testing.T) {
	repo := stubRepoWithUser(t, "anna@proffskontakt.se", "hemligt123", models.ROLE_ADMIN, models.STATUS_ACTIVE)
	authorize := NewAdminAuthorizer(repo, "", "")

	assert.True(t, authorize("anna@proffskontakt.se", "hemligt123"))
	assert.False(t, authorize("anna@proffskontakt.se", "fel-losenord"))
}

func TestAdminAuthorizerRejectsNonAdminRole(t *testing.T) {
	repo := stubRepoWithUser(t, "bo@proffskontakt.se", "hemligt123", models.ROLE_USER, models.STATUS_ACTIVE)
	authorize := NewAdminAuthorizer(repo, "", "")

	assert.False(t, authorize("bo@proffskontakt.se", "hemligt123"))
}

func TestAdminAuthorizerRejectsInactiveAdmin(t *testing.T) {
	repo := stubRepoWithUser(t, "anna@proffskontakt.se", "hemligt123", models.ROLE_ADMIN, models.STATUS_DISABLED)
	authorize := NewAdminAuthorizer(repo, "", "")

	assert.False(t, authorize("anna@proffskontakt.se", "hemligt123"))
}

func TestAdminAuthorizerBootstrapFallback(t *testing.T) {
	repo := &stubUserRepository{}
	authorize := NewAdminAuthorizer(repo, "admin", "bootstrap-pass")

	assert.True(t, authorize("admin", "bootstrap-pass"))
	assert.False(t, authorize("admin", "wrong"))
	assert.False(t, authorize("someone-else", "bootstrap-pass"))
}

func TestAdminAuthorizerNoFallbackConfigured(t *testing.T) {
	repo := &stubUserRepository{}
	authorize := NewAdminAuthorizer(repo, "", "")

	assert.False(t, authorize("admin", "anything"))
}

func TestAdminAuthorizerUserEntryBeatsFallback(t *testing.T) {
	repo := stubRepoWithUser(t, "admin", "db-pass", models.ROLE_ADMIN, models.STATUS_ACTIVE)
	authorize := NewAdminAuthorizer(repo, "admin", "env-pass")

	assert.True(t, authorize("admin", "db-pass"))
	assert.False(t, authorize("admin", "env-pass"))
}
