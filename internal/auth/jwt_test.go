package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := manager.Issue(userID, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, verified)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("issuer-secret", time.Hour)
	token, err := issuer.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	verifier := NewTokenManager("other-secret", time.Hour)
	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	manager := NewTokenManager("test-secret", -time.Minute)
	token, err := manager.Issue(uuid.New(), "a@b.com")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.Error(t, err)
}

func TestTokenManager_Verify_Garbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := manager.Verify(token)
		assert.Error(t, err, token)
	}
}
