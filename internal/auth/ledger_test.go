package auth

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/trip-service/internal/domain"
)

func testLedger(cache Cache, now time.Time) *TokenLedger {
	ledger := NewTokenLedger(cache)
	ledger.now = func() time.Time { return now }
	return ledger
}

func TestMarkValidRecordsOwner(t *testing.T) {
	cache := newFakeCache()
	ledger := testLedger(cache, time.Now())

	if err := ledger.MarkValid(context.Background(), TokenKindAccess, "tok", "u1", domain.RoleDefault, 15*time.Minute); err != nil {
		t.Fatalf("mark valid: %v", err)
	}

	record, ok, err := ledger.Record(context.Background(), TokenKindAccess, "tok")
	if err != nil || !ok {
		t.Fatalf("record: ok=%v err=%v", ok, err)
	}
	if record.State != TokenStateValid || record.PrincipalID != "u1" || record.Role != domain.RoleDefault {
		t.Fatalf("unexpected record: %+v", record)
	}

	revoked, err := ledger.IsRevoked(context.Background(), TokenKindAccess, "tok")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("valid token reported revoked")
	}
}

func TestRevokeUsesRemainingLifetime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := newFakeCache()
	ledger := testLedger(cache, now)

	if err := ledger.Revoke(context.Background(), TokenKindRefresh, "tok", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	entry, ok := cache.entry("token:refresh-token:tok")
	if !ok {
		t.Fatalf("expected ledger entry")
	}
	if entry.ttl != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %v", entry.ttl)
	}

	revoked, err := ledger.IsRevoked(context.Background(), TokenKindRefresh, "tok")
	if err != nil || !revoked {
		t.Fatalf("expected revoked, got %v err=%v", revoked, err)
	}
}

func TestRevokeExpiredTokenGetsFloorTTL(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := newFakeCache()
	ledger := testLedger(cache, now)

	// already expired at revocation time
	if err := ledger.Revoke(context.Background(), TokenKindAccess, "tok", now.Add(-time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	entry, _ := cache.entry("token:access-token:tok")
	if entry.ttl != time.Minute {
		t.Fatalf("expected floor ttl of 1m, got %v", entry.ttl)
	}

	// zero expiry (no exp claim) also gets the floor
	if err := ledger.Revoke(context.Background(), TokenKindAccess, "tok2", time.Time{}); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	entry, _ = cache.entry("token:access-token:tok2")
	if entry.ttl != time.Minute {
		t.Fatalf("expected floor ttl of 1m, got %v", entry.ttl)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := newFakeCache()
	ledger := testLedger(cache, now)

	expiry := now.Add(-time.Minute)
	if err := ledger.Revoke(context.Background(), TokenKindAccess, "tok", expiry); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := ledger.Revoke(context.Background(), TokenKindAccess, "tok", expiry); err != nil {
		t.Fatalf("second revoke: %v", err)
	}

	entry, _ := cache.entry("token:access-token:tok")
	if entry.ttl < time.Minute {
		t.Fatalf("ttl shortened below floor: %v", entry.ttl)
	}
	revoked, _ := ledger.IsRevoked(context.Background(), TokenKindAccess, "tok")
	if !revoked {
		t.Fatalf("expected revoked")
	}
}

func TestIsRevokedMissingEntry(t *testing.T) {
	ledger := testLedger(newFakeCache(), time.Now())

	revoked, err := ledger.IsRevoked(context.Background(), TokenKindAccess, "unknown")
	if err != nil {
		t.Fatalf("is revoked: %v", err)
	}
	if revoked {
		t.Fatalf("missing entry must not count as revoked")
	}
}
