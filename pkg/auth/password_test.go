package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyHash_KnownDigest(t *testing.T) {
	// md5("password") is a well-known digest
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", LegacyHash("password"))
}

func TestVerifyPassword_LegacyHash(t *testing.T) {
	stored := LegacyHash("hunter2!")

	assert.NoError(t, VerifyPassword(stored, "hunter2!"))
	assert.Error(t, VerifyPassword(stored, "hunter3!"))
}

func TestVerifyPassword_LegacyHash_CaseInsensitiveStoredDigest(t *testing.T) {
	// Some legacy rows carry uppercase hex digests
	assert.NoError(t, VerifyPassword("5F4DCC3B5AA765D61D8327DEB882CF99", "password"))
}

func TestVerifyPassword_BcryptHash(t *testing.T) {
	hashed, err := HashPassword("SecurePassword123")
	require.NoError(t, err)

	assert.NoError(t, VerifyPassword(hashed, "SecurePassword123"))
	assert.Error(t, VerifyPassword(hashed, "WrongPassword123"))
}

func TestVerifyPassword_EmptyStoredHash(t *testing.T) {
	assert.Error(t, VerifyPassword("", "anything"))
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestHashPassword_NeverWritesLegacyScheme(t *testing.T) {
	hashed, err := HashPassword("SecurePassword123")
	require.NoError(t, err)
	assert.NotEqual(t, LegacyHash("SecurePassword123"), hashed)
	assert.Contains(t, hashed, "$2")
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "SecurePassword123", false},
		{"too short", "Ab1", true},
		{"no uppercase", "nouppercase123", true},
		{"no lowercase", "NOLOWERCASE123", true},
		{"no digits", "NoDigitsHere", true},
		{"common password", "password", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
