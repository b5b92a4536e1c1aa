package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. All of them surface to clients as a uniform 401;
// they stay distinct here so rejections can be told apart in logs.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenSignature = errors.New("token signature is invalid")
)

// Principal is the identity embedded in a session token.
type Principal struct {
	SubjectID string
	Email     string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and verifies stateless session tokens. The signing secret is
// loaded once at startup; a token is valid iff its signature checks out
// against that secret and it has not expired.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with a symmetric secret and a fixed token
// lifetime.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for the given subject.
func (c *Codec) Issue(subjectID, email string) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token and returns the embedded principal.
func (c *Codec) Verify(tokenString string) (*Principal, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return c.secret, nil
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}

	if claims.Subject == "" {
		return nil, ErrTokenMalformed
	}

	return &Principal{
		SubjectID: claims.Subject,
		Email:     claims.Email,
	}, nil
}
