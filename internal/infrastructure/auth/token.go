package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"findmystuff/pkg/apperr"
)

// Identity is the result of verifying a bearer credential.
type Identity struct {
	UserID string
	Email  string
}

// Verifier issues and verifies self-contained HS256 bearer tokens. It keeps
// no session state; verification is pure computation over the token itself.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret string, ttl time.Duration) *Verifier {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a time-bounded token for the given identity.
func (v *Verifier) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses and validates a bearer token. An unparseable token maps to
// UNAUTHENTICATED; a well-formed token failing signature or time checks maps
// to INVALID_CREDENTIAL.
func (v *Verifier) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("unauthenticated")
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, apperr.Unauthenticated("unauthenticated")
		}
		return nil, apperr.InvalidCredential("invalid token")
	}
	if claims.Subject == "" {
		return nil, apperr.InvalidCredential("invalid token")
	}

	return &Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
