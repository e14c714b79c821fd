package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Decode failure taxonomy. The HTTP boundary collapses all three into a single
// rejection on purpose, but callers that want to log or count can tell them apart.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrBadSignature   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token carrying the user id as subject, valid for the
// manager's fixed lifetime from now.
func (m *Manager) Issue(userID string) (string, error) {
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Decode verifies signature and expiry and returns the embedded user id.
func (m *Manager) Decode(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, ErrBadSignature
		}
		return m.secret, nil
	})

	if err != nil {
		return "", classifyDecodeErr(err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)

	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}

	return claims.Subject, nil
}

func classifyDecodeErr(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrBadSignature):
		return ErrBadSignature
	default:
		return ErrTokenMalformed
	}
}
