package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	user, err := CreateUser("forum-bot-owner", "s3cret-pass")
	require.NoError(t, err)

	assert.Equal(t, "forum-bot-owner", user.Name)
	assert.Equal(t, STATUS_ACTIVE, user.Status)
	assert.NotEqual(t, "s3cret-pass", user.Password, "password must be stored hashed")
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestCreateUser_Invalid(t *testing.T) {
	_, err := CreateUser("ab", "s3cret-pass")
	assert.Error(t, err, "names shorter than 3 characters are rejected")

	_, err = CreateUser("valid-name", "short")
	assert.Error(t, err, "passwords shorter than 6 characters are rejected")
}

func TestUser_IsActive(t *testing.T) {
	user := &User{Status: STATUS_ACTIVE}
	assert.True(t, user.IsActive())

	user.Status = STATUS_DISABLED
	assert.False(t, user.IsActive())
}
