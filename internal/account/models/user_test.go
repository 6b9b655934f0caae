package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/pkg/domain"
	dErrors "phonebook/pkg/domain-errors"
)

func TestNewUser(t *testing.T) {
	now := time.Now()

	t.Run("valid account", func(t *testing.T) {
		u, err := NewUser(domain.NewUserID(), "mluukkai", "hash", now)
		require.NoError(t, err)
		assert.Equal(t, "mluukkai", u.Username)
		assert.Equal(t, now, u.CreatedAt)
	})

	t.Run("username must be at least 3 characters", func(t *testing.T) {
		_, err := NewUser(domain.NewUserID(), "ab", "hash", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = NewUser(domain.NewUserID(), "abc", "hash", now)
		require.NoError(t, err)
	})

	t.Run("whitespace does not count toward the minimum", func(t *testing.T) {
		_, err := NewUser(domain.NewUserID(), "  ab  ", "hash", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects an empty password hash", func(t *testing.T) {
		_, err := NewUser(domain.NewUserID(), "mluukkai", "", now)
		require.Error(t, err)
	})
}

func TestPasswordHashNeverSerializes(t *testing.T) {
	u, err := NewUser(domain.NewUserID(), "mluukkai", "super-secret-hash", time.Now())
	require.NoError(t, err)

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-hash")
}

func TestIsFriend(t *testing.T) {
	u, err := NewUser(domain.NewUserID(), "mluukkai", "hash", time.Now())
	require.NoError(t, err)

	friend := domain.NewPersonID()
	assert.False(t, u.IsFriend(friend))

	u.FriendIDs = append(u.FriendIDs, friend)
	assert.True(t, u.IsFriend(friend))
	assert.False(t, u.IsFriend(domain.NewPersonID()))
}
