package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id := NewUUID()
	assert.True(t, IsUUID(id))

	// Two generated IDs must differ
	assert.NotEqual(t, id, NewUUID())
}

func TestIsUUID(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"Valid v4", "cfab2504-7a66-4595-bd73-b05b44d0912e", true},
		{"Empty", "", false},
		{"Too short", "cfab2504-7a66-4595-bd73", false},
		{"Not hex", "zzzz2504-7a66-4595-bd73-b05b44d0912e", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsUUID(tt.value))
		})
	}
}

func TestNewSecret(t *testing.T) {
	secret, err := NewSecret()
	require.NoError(t, err)

	assert.Len(t, secret, SecretLength)
	assert.True(t, IsSecret(secret))

	other, err := NewSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)
}

func TestIsSecret(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"Valid", "d41d8cd98f00b204e9800998ecf8427e", true},
		{"Uppercase rejected", "D41D8CD98F00B204E9800998ECF8427E", false},
		{"31 chars", "d41d8cd98f00b204e9800998ecf8427", false},
		{"33 chars", "d41d8cd98f00b204e9800998ecf8427e0", false},
		{"Non hex", "g41d8cd98f00b204e9800998ecf8427e", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsSecret(tt.value))
		})
	}
}
