package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSigner(t *testing.T) {
	signer, err := NewSessionSigner("test-secret")
	require.NoError(t, err)

	t.Run("Should round trip the session id", func(t *testing.T) {
		token, expiresAt, err := signer.Issue("sess-1", time.Minute)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Minute), expiresAt, 2*time.Second)

		id, err := signer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "sess-1", id)
	})

	t.Run("Should reject tokens signed with another secret", func(t *testing.T) {
		other, err := NewSessionSigner("other-secret")
		require.NoError(t, err)
		token, _, err := other.Issue("sess-1", time.Minute)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject expired tokens", func(t *testing.T) {
		token, _, err := signer.Issue("sess-1", time.Minute)
		require.NoError(t, err)

		later := &SessionSigner{secret: signer.secret, now: func() time.Time { return time.Now().Add(2 * time.Minute) }}
		_, err = later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should reject unsigned tokens", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SessionID: "sess-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = signer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Should generate a secret when none is configured", func(t *testing.T) {
		random, err := NewSessionSigner("")
		require.NoError(t, err)
		assert.Len(t, random.secret, 32)
	})
}
