package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/observability"
	"github.com/spec-kit/trip-service/internal/repository"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

const (
	userLocalKey     = "auth_user"
	customerLocalKey = "auth_customer"
)

// RouteMetadata classifies a route for the request gate. The zero value is
// the default-principal route class.
type RouteMetadata struct {
	Public          bool
	CustomerAllowed bool
}

// Guard is the per-request gate: it classifies the route, extracts the
// bearer token, resolves the calling principal and attaches it to the
// request context, or rejects the request.
type Guard struct {
	codec     *TokenCodec
	ledger    *TokenLedger
	cache     Cache
	users     repository.UserRepository
	customers repository.CustomerRepository
	cacheTTL  time.Duration
	metrics   *observability.Metrics
}

// NewGuard constructs the gate.
func NewGuard(
	codec *TokenCodec,
	ledger *TokenLedger,
	cache Cache,
	users repository.UserRepository,
	customers repository.CustomerRepository,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
) *Guard {
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Guard{
		codec:     codec,
		ledger:    ledger,
		cache:     cache,
		users:     users,
		customers: customers,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
	}
}

// Authorize returns the fiber handler enforcing the gate for one route
// class. Evaluation order is fixed: public, bearer extraction, customer
// branch, default branch. Every rejection is terminal for the request.
func (g *Guard) Authorize(meta RouteMetadata) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if meta.Public {
			return c.Next()
		}

		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return g.reject("token not provided or malformed")
		}

		if meta.CustomerAllowed {
			// A customer token is an opaque credential, not a signed
			// session token; the ledger is never consulted here.
			customer, err := g.fetchCustomer(c.UserContext(), token)
			if err != nil {
				return apperrors.MapError(err)
			}
			if customer == nil {
				return g.reject("customer not found")
			}
			c.Locals(customerLocalKey, customer)
			g.metrics.RecordAuthDecision("allowed")
			return c.Next()
		}

		revoked, err := g.ledger.IsRevoked(c.UserContext(), TokenKindAccess, token)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return g.reject("token is blacklisted")
		}

		claims, err := g.codec.Verify(token)
		if err != nil {
			return g.reject("invalid or expired token")
		}

		user, err := g.fetchUser(c.UserContext(), claims.PrincipalID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if user == nil {
			// valid signature but the principal no longer exists
			return g.reject("user not found")
		}

		c.Locals(userLocalKey, user)
		g.metrics.RecordAuthDecision("allowed")
		return c.Next()
	}
}

func (g *Guard) reject(reason string) error {
	g.metrics.RecordAuthDecision(reason)
	return apperrors.NewUnauthorized(reason)
}

func (g *Guard) fetchUser(ctx context.Context, id string) (*domain.User, error) {
	return Through(ctx, g.cache, UserCacheKey(id), g.cacheTTL, func(ctx context.Context) (*domain.User, error) {
		return g.users.GetByID(ctx, id)
	})
}

func (g *Guard) fetchCustomer(ctx context.Context, token string) (*domain.Customer, error) {
	return Through(ctx, g.cache, CustomerCacheKey(token), g.cacheTTL, func(ctx context.Context) (*domain.Customer, error) {
		return g.customers.GetByToken(ctx, token)
	})
}

// bearerToken extracts the token from an Authorization header. The scheme
// literal "Bearer" is matched case-sensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

// CurrentUser retrieves the default principal attached by the gate.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(userLocalKey).(*domain.User)
	return user, ok
}

// CurrentCustomer retrieves the customer principal attached by the gate.
func CurrentCustomer(c *fiber.Ctx) (*domain.Customer, bool) {
	customer, ok := c.Locals(customerLocalKey).(*domain.Customer)
	return customer, ok
}
