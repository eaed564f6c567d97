package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/observability"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

const testSecret = "guard-test-secret"

type memCache struct {
	mu      sync.Mutex
	entries map[string]string
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]string)}
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

type stubUserRepo struct {
	users map[string]*domain.User
	calls int
}

func (r *stubUserRepo) Create(context.Context, *domain.User) error { return nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.calls++
	return r.users[id], nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.calls++
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

type stubCustomerRepo struct {
	customers map[string]*domain.Customer
	calls     int
}

func (r *stubCustomerRepo) Create(context.Context, *domain.Customer) error { return nil }
func (r *stubCustomerRepo) Update(context.Context, *domain.Customer) error { return nil }
func (r *stubCustomerRepo) Delete(context.Context, string) error           { return nil }

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.calls++
	return r.customers[id], nil
}

func (r *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.calls++
	for _, customer := range r.customers {
		if customer.Email == email {
			return customer, nil
		}
	}
	return nil, nil
}

func (r *stubCustomerRepo) GetByToken(_ context.Context, token string) (*domain.Customer, error) {
	r.calls++
	for _, customer := range r.customers {
		if customer.Token == token {
			return customer, nil
		}
	}
	return nil, nil
}

type guardFixture struct {
	app       *fiber.App
	cache     *memCache
	ledger    *auth.TokenLedger
	codec     *auth.TokenCodec
	users     *stubUserRepo
	customers *stubCustomerRepo
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	cache := newMemCache()
	codec := auth.NewTokenCodec(testSecret, 15*time.Minute, 24*time.Hour)
	ledger := auth.NewTokenLedger(cache)
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Adam", Email: "a@b.com"},
	}}
	customers := &stubCustomerRepo{customers: map[string]*domain.Customer{
		"c1": {ID: "c1", Name: "Eve", Email: "eve@shop.com", Token: "opaque-token-16c"},
	}}

	gate := auth.NewGuard(codec, ledger, cache, users, customers, time.Hour, observability.NewMetrics())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{
				"error": fiber.Map{"code": domainErr.Code, "message": domainErr.Message},
			})
		},
	})

	app.Get("/public", gate.Authorize(auth.RouteMetadata{Public: true}), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/protected", gate.Authorize(auth.RouteMetadata{}), func(c *fiber.Ctx) error {
		user, ok := auth.CurrentUser(c)
		if !ok {
			t.Error("expected user principal on request context")
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(user.ID)
	})
	app.Get("/customer", gate.Authorize(auth.RouteMetadata{CustomerAllowed: true}), func(c *fiber.Ctx) error {
		customer, ok := auth.CurrentCustomer(c)
		if !ok {
			t.Error("expected customer principal on request context")
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(customer.ID)
	})

	return &guardFixture{app: app, cache: cache, ledger: ledger, codec: codec, users: users, customers: customers}
}

func (f *guardFixture) get(t *testing.T, path, authorization string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(body)
}

func errorMessage(t *testing.T, body string) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return envelope.Error.Message
}

func TestGuardPublicRouteSkipsChecks(t *testing.T) {
	f := newGuardFixture(t)

	resp, body := f.get(t, "/public", "")
	if resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", resp.StatusCode, body)
	}
	if f.users.calls != 0 || f.customers.calls != 0 {
		t.Fatalf("public route must not touch the stores")
	}
}

func TestGuardMissingHeader(t *testing.T) {
	f := newGuardFixture(t)

	for _, path := range []string{"/protected", "/customer"} {
		resp, body := f.get(t, path, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
		if msg := errorMessage(t, body); msg != "token not provided or malformed" {
			t.Fatalf("%s: unexpected message %q", path, msg)
		}
	}
	if f.users.calls != 0 || f.customers.calls != 0 {
		t.Fatalf("missing header must be rejected before any store call")
	}
}

func TestGuardSchemeIsCaseSensitive(t *testing.T) {
	f := newGuardFixture(t)

	resp, body := f.get(t, "/protected", "bearer some-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "token not provided or malformed" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGuardBlacklistedToken(t *testing.T) {
	f := newGuardFixture(t)

	token, _, err := f.codec.IssueAccess("u1", domain.RoleDefault)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if err := f.ledger.Revoke(context.Background(), auth.TokenKindAccess, token, time.Now().Add(15*time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	resp, body := f.get(t, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "token is blacklisted" {
		t.Fatalf("unexpected message %q", msg)
	}
	if f.users.calls != 0 {
		t.Fatalf("blacklisted token must be rejected before the user store")
	}
}

func TestGuardExpiredToken(t *testing.T) {
	f := newGuardFixture(t)

	claims := &auth.Claims{
		PrincipalID: "u1",
		Role:        domain.RoleDefault,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	resp, body := f.get(t, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "invalid or expired token" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGuardDefaultBranchResolvesUser(t *testing.T) {
	f := newGuardFixture(t)

	token, _, err := f.codec.IssueAccess("u1", domain.RoleDefault)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, body := f.get(t, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusOK || body != "u1" {
		t.Fatalf("expected 200 u1, got %d %q", resp.StatusCode, body)
	}
	if f.users.calls != 1 {
		t.Fatalf("expected one store call, got %d", f.users.calls)
	}

	// second request is served from the principal cache
	resp, body = f.get(t, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusOK || body != "u1" {
		t.Fatalf("expected cached 200 u1, got %d %q", resp.StatusCode, body)
	}
	if f.users.calls != 1 {
		t.Fatalf("expected cache hit, store called %d times", f.users.calls)
	}
}

func TestGuardUserVanished(t *testing.T) {
	f := newGuardFixture(t)

	token, _, err := f.codec.IssueAccess("ghost", domain.RoleDefault)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	resp, body := f.get(t, "/protected", "Bearer "+token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "user not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestGuardCustomerBranchResolvesByOpaqueToken(t *testing.T) {
	f := newGuardFixture(t)

	resp, body := f.get(t, "/customer", "Bearer opaque-token-16c")
	if resp.StatusCode != http.StatusOK || body != "c1" {
		t.Fatalf("expected 200 c1, got %d %q", resp.StatusCode, body)
	}
	if f.customers.calls != 1 {
		t.Fatalf("expected one store call, got %d", f.customers.calls)
	}

	resp, body = f.get(t, "/customer", "Bearer opaque-token-16c")
	if resp.StatusCode != http.StatusOK || body != "c1" {
		t.Fatalf("expected cached 200 c1, got %d %q", resp.StatusCode, body)
	}
	if f.customers.calls != 1 {
		t.Fatalf("expected cache hit, store called %d times", f.customers.calls)
	}
}

func TestGuardCustomerBranchIgnoresLedger(t *testing.T) {
	f := newGuardFixture(t)

	// revoking the opaque value in the ledger must not affect the
	// customer branch: a customer token is a different credential class
	if err := f.ledger.Revoke(context.Background(), auth.TokenKindAccess, "opaque-token-16c", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	resp, body := f.get(t, "/customer", "Bearer opaque-token-16c")
	if resp.StatusCode != http.StatusOK || body != "c1" {
		t.Fatalf("expected 200 c1, got %d %q", resp.StatusCode, body)
	}
}

func TestGuardCustomerNotFound(t *testing.T) {
	f := newGuardFixture(t)

	resp, body := f.get(t, "/customer", "Bearer unknown-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	if msg := errorMessage(t, body); msg != "customer not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}
