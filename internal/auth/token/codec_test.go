package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec("", time.Hour)
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	tokenString, err := codec.Issue("subject-123", "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	principal, err := codec.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "subject-123", principal.SubjectID)
	assert.Equal(t, "a@b.com", principal.Email)
}

func TestVerifyExpiredToken(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	expired := signWithClaims(t, "test-secret", sessionClaims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-123",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err = codec.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestExpiryBoundary(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Second)
	require.NoError(t, err)

	tokenString, err := codec.Issue("subject-123", "a@b.com")
	require.NoError(t, err)

	// Accepted immediately after issuance.
	_, err = codec.Verify(tokenString)
	require.NoError(t, err)

	// Rejected once the embedded expiry passes.
	time.Sleep(2 * time.Second)
	_, err = codec.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer, err := NewCodec("secret-one", time.Hour)
	require.NoError(t, err)
	verifier, err := NewCodec("secret-two", time.Hour)
	require.NoError(t, err)

	tokenString, err := issuer.Issue("subject-123", "a@b.com")
	require.NoError(t, err)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	for _, garbage := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Verify(garbage)
		assert.ErrorIs(t, err, ErrTokenMalformed, "input %q", garbage)
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	noSubject := signWithClaims(t, "test-secret", sessionClaims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err = codec.Verify(noSubject)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRejectsUnexpectedAlgorithm(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "subject-123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(unsigned)
	require.Error(t, err)
}

func signWithClaims(t *testing.T, secret string, claims sessionClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}
