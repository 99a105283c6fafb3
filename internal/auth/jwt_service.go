package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TokenExpiry is the duration for which issued tokens are valid.
const TokenExpiry = time.Hour

// ContextKey is the echo context key under which verified claims are stored.
const ContextKey = "user"

// ErrInvalidToken is returned by Verify for any token that fails validation:
// bad signature, malformed structure, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims carried by a bearer token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 bearer tokens. It is stateless: there
// is no revocation list, so a token stays valid for its full window even if
// the account is blocked after issuance.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Issue produces a signed token for the user, valid for TokenExpiry.
func (s *JWTService) Issue(userID uint, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token string and returns its claims. Every failure mode
// wraps ErrInvalidToken so callers can treat them uniformly.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ClaimsFromContext returns the claims the auth middleware attached to the
// request, or nil for unauthenticated requests.
func ClaimsFromContext(c echo.Context) *Claims {
	claims, _ := c.Get(ContextKey).(*Claims)
	return claims
}
