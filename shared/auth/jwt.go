package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessAuth is the purpose tag carried by every login token.
const AccessAuth = "auth"

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 24 * time.Hour

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrInvalidToken   = errors.New("invalid token")
)

// Claims are the claims carried by an auth token.
type Claims struct {
	UserID string `json:"_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and verifies HS256 signed tokens bound to a user
// and a purpose tag.
type JWTAuthenticator struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// Option configures a JWTAuthenticator.
type Option func(*JWTAuthenticator)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(a *JWTAuthenticator) {
		a.now = now
	}
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance. The issuer is
// also used as the expected audience.
func NewJWTAuthenticator(secret, issuer string, opts ...Option) *JWTAuthenticator {
	a := &JWTAuthenticator{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// GenerateToken issues a token for userID with the given purpose tag.
// Each call produces a distinct token, even within the same second.
func (a *JWTAuthenticator) GenerateToken(userID, access string) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := a.now()
	claims := Claims{
		UserID: userID,
		Access: access,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateToken verifies the signature, expiry, issuer and audience of
// tokenString and returns its claims. The returned error wraps one of
// ErrMalformedToken, ErrBadSignature, ErrTokenExpired or ErrInvalidToken.
func (a *JWTAuthenticator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.issuer),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, classify(err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}
