package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.Issue("user-1", "ada@example.com", "organizer", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "organizer", identity.Role)
}

func TestJWTManager_Verify_Expired(t *testing.T) {
	manager := NewJWTManager("test-secret")

	token, err := manager.Issue("user-1", "ada@example.com", "attendee", -time.Minute)
	require.NoError(t, err)

	_, err = manager.Verify(token)
	require.Error(t, err)
}

func TestJWTManager_Verify_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a").Issue("user-1", "ada@example.com", "attendee", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b").Verify(token)
	require.Error(t, err)
}

func TestJWTManager_Verify_Garbage(t *testing.T) {
	manager := NewJWTManager("test-secret")

	_, err := manager.Verify("not.a.jwt")
	require.Error(t, err)

	_, err = manager.Verify("")
	require.Error(t, err)
}
