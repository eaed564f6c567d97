package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spec-kit/trip-service/internal/domain"
)

// TokenKind distinguishes the two signed token classes in the ledger.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access-token"
	TokenKindRefresh TokenKind = "refresh-token"
)

// TokenState is the lifecycle state recorded for a token string.
type TokenState string

const (
	TokenStateValid   TokenState = "valid"
	TokenStateRevoked TokenState = "revoked"
)

// revocationTTLFloor keeps a short-lived marker even for tokens that are
// already expired at revocation time, guarding against clock skew between
// issuance and verification.
const revocationTTLFloor = time.Minute

// TokenRecord is the ledger value stored per token string. Valid records
// carry owner metadata so a still-valid access token can be mapped back to
// its principal without re-verifying the signature.
type TokenRecord struct {
	State       TokenState  `json:"state"`
	PrincipalID string      `json:"principal_id,omitempty"`
	Role        domain.Role `json:"role,omitempty"`
}

// TokenLedger is the single token-state store: issuance marks tokens valid,
// logout overwrites them as revoked. Entries expire with the token itself.
type TokenLedger struct {
	cache Cache
	now   func() time.Time
}

// NewTokenLedger builds a ledger over the cache capability.
func NewTokenLedger(cache Cache) *TokenLedger {
	return &TokenLedger{cache: cache, now: time.Now}
}

func ledgerKey(kind TokenKind, token string) string {
	return "token:" + string(kind) + ":" + token
}

// MarkValid records an issued token with its owner for the token's lifetime.
func (l *TokenLedger) MarkValid(ctx context.Context, kind TokenKind, token, principalID string, role domain.Role, ttl time.Duration) error {
	record := TokenRecord{State: TokenStateValid, PrincipalID: principalID, Role: role}
	return l.write(ctx, kind, token, record, ttl)
}

// Revoke overwrites the token's ledger entry as revoked. The marker lives
// for the token's remaining validity, with a one-minute floor so already
// expired tokens still get a short-lived entry. Revoking twice is harmless.
func (l *TokenLedger) Revoke(ctx context.Context, kind TokenKind, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(l.now())
	if ttl < revocationTTLFloor {
		ttl = revocationTTLFloor
	}
	return l.write(ctx, kind, token, TokenRecord{State: TokenStateRevoked}, ttl)
}

// IsRevoked reports whether the token string has a revoked ledger entry.
// A missing entry is not revocation: only an explicit revoked state rejects.
func (l *TokenLedger) IsRevoked(ctx context.Context, kind TokenKind, token string) (bool, error) {
	record, ok, err := l.Record(ctx, kind, token)
	if err != nil || !ok {
		return false, err
	}
	return record.State == TokenStateRevoked, nil
}

// Record returns the ledger entry for a token, if any.
func (l *TokenLedger) Record(ctx context.Context, kind TokenKind, token string) (*TokenRecord, bool, error) {
	raw, ok, err := l.cache.Get(ctx, ledgerKey(kind, token))
	if err != nil || !ok {
		return nil, false, err
	}
	var record TokenRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (l *TokenLedger) write(ctx context.Context, kind TokenKind, token string, record TokenRecord, ttl time.Duration) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return l.cache.Set(ctx, ledgerKey(kind, token), string(encoded), ttl)
}
