package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemRepository()

	added := repo.Add(User{
		Email:  "admin@example.com",
		Role:   RoleAdmin,
		Status: StatusActive,
	})
	assert.Equal(t, int64(1), added.ID)

	t.Run("FindByEmailCaseInsensitive", func(t *testing.T) {
		u, err := repo.FindByEmail(ctx, "Admin@Example.COM")
		require.NoError(t, err)
		assert.Equal(t, added.ID, u.ID)
	})

	t.Run("FindByEmailMissing", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("FindByID", func(t *testing.T) {
		u, err := repo.FindByID(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", u.Email)

		_, err = repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("ExplicitIDAdvancesSequence", func(t *testing.T) {
		repo.Add(User{ID: 10, Email: "ten@example.com", Role: RoleLearner, Status: StatusActive})
		next := repo.Add(User{Email: "eleven@example.com", Role: RoleLearner, Status: StatusActive})
		assert.Equal(t, int64(11), next.ID)
	})
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "learner", "school"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.True(t, role.Valid())
	}

	_, err := ParseRole("instructor")
	assert.Error(t, err)
}

func TestUserIsActive(t *testing.T) {
	assert.True(t, User{Status: StatusActive}.IsActive())
	assert.False(t, User{Status: StatusInactive}.IsActive())
	assert.False(t, User{Status: StatusSuspended}.IsActive())
}
