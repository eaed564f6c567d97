package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/trip-service/internal/domain"
)

// Verification failures are classified so callers can report expiry,
// prematurity and everything else distinctly.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrTokenInvalid     = errors.New("invalid token")
)

// Claims describes the signed token payload.
type Claims struct {
	PrincipalID string      `json:"id"`
	Role        domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256-signed, time-bounded tokens.
type TokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenCodec builds a codec with the configured token lifetimes.
func NewTokenCodec(secret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL reports the configured access token lifetime.
func (c *TokenCodec) AccessTTL() time.Duration {
	return c.accessTTL
}

// IssueAccess signs a short-lived access token for the principal.
func (c *TokenCodec) IssueAccess(principalID string, role domain.Role) (string, time.Time, error) {
	now := c.now()
	return c.sign(principalID, role, now, now.Add(c.accessTTL), nil)
}

// IssueRefresh signs a refresh token. Its not-before is set to the access
// token lifetime so it only becomes usable once the paired access token
// would have expired.
func (c *TokenCodec) IssueRefresh(principalID string, role domain.Role) (string, time.Time, error) {
	now := c.now()
	notBefore := now.Add(c.accessTTL)
	return c.sign(principalID, role, now, now.Add(c.refreshTTL), &notBefore)
}

func (c *TokenCodec) sign(principalID string, role domain.Role, issuedAt, expiresAt time.Time, notBefore *time.Time) (string, time.Time, error) {
	claims := &Claims{
		PrincipalID: principalID,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if notBefore != nil {
		claims.NotBefore = jwt.NewNumericDate(*notBefore)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates signature, expiry and not-before, and returns the claims.
// Failures are wrapped as ErrTokenExpired, ErrTokenNotYetValid or
// ErrTokenInvalid.
func (c *TokenCodec) Verify(tokenStr string) (*Claims, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, fmt.Errorf("%w: %v", ErrTokenNotYetValid, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}
	return claims, nil
}

// DecodeLenient checks the signature but ignores expiry and not-before, so a
// client can always terminate a session even with tokens past their window.
func (c *TokenCodec) DecodeLenient(tokenStr string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}

func (c *TokenCodec) parse(tokenStr string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

func (c *TokenCodec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return c.secret, nil
}
