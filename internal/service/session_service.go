package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/config"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/events"
	"github.com/spec-kit/trip-service/internal/repository"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// SessionService implements the login, refresh and logout protocol.
type SessionService struct {
	users      repository.UserRepository
	customers  repository.CustomerRepository
	codec      *auth.TokenCodec
	ledger     *auth.TokenLedger
	dispatcher events.Dispatcher
}

// SessionDependencies encapsulates collaborator requirements.
type SessionDependencies struct {
	UserRepo     repository.UserRepository
	CustomerRepo repository.CustomerRepository
	Cache        auth.Cache
	Dispatcher   events.Dispatcher
}

// NewSessionService builds the service.
func NewSessionService(cfg config.Config, deps SessionDependencies) *SessionService {
	return &SessionService{
		users:      deps.UserRepo,
		customers:  deps.CustomerRepo,
		codec:      auth.NewTokenCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		ledger:     auth.NewTokenLedger(deps.Cache),
		dispatcher: deps.Dispatcher,
	}
}

// Codec exposes the token codec for the request gate.
func (s *SessionService) Codec() *auth.TokenCodec {
	return s.codec
}

// Ledger exposes the token ledger for the request gate.
func (s *SessionService) Ledger() *auth.TokenLedger {
	return s.ledger
}

// Login authenticates a credential against the user store first, then the
// customer store. The role is determined by which store answered; each store
// is consulted at most once.
func (s *SessionService) Login(ctx context.Context, cred domain.Credential) (*domain.TokenPair, error) {
	if err := cred.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	role := domain.RoleDefault
	var principalID, secretHash string

	user, err := s.users.GetByEmail(ctx, cred.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		principalID, secretHash = user.ID, user.PasswordHash
	} else {
		customer, err := s.customers.GetByEmail(ctx, cred.Email)
		if err != nil {
			return nil, err
		}
		if customer != nil {
			role = domain.RoleCustomer
			principalID, secretHash = customer.ID, customer.PasswordHash
		}
	}

	if principalID == "" {
		// same cost and same message as a wrong password, so the
		// response does not reveal whether the email exists
		auth.DummyCompare(cred.Password)
		return nil, apperrors.NewUnauthorized("invalid identifier or password")
	}
	if err := auth.ComparePassword(secretHash, cred.Password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid identifier or password")
	}

	pair, err := s.generateTokens(ctx, principalID, role)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventUserLoggedIn, principalID, role)
	return pair, nil
}

// RefreshToken exchanges a refresh token for a brand-new pair. The old
// tokens are not extended; both are replaced.
func (s *SessionService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.NewBadRequest("refresh token required", nil)
	}

	revoked, err := s.ledger.IsRevoked(ctx, auth.TokenKindRefresh, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("token is blacklisted")
	}

	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenNotYetValid):
			return nil, apperrors.NewUnauthorized("refresh token not yet valid")
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.NewUnauthorized("refresh token expired")
		default:
			return nil, apperrors.NewUnauthorized("invalid refresh token")
		}
	}

	if claims.PrincipalID == "" || claims.Role == "" {
		return nil, apperrors.NewUnauthorized("invalid token payload")
	}

	principalID, err := s.resolvePrincipal(ctx, claims.PrincipalID, claims.Role)
	if err != nil {
		return nil, err
	}

	pair, err := s.generateTokens(ctx, principalID, claims.Role)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventSessionRefreshed, principalID, claims.Role)
	return pair, nil
}

// Logout revokes both tokens of a session. Tokens are decoded leniently so a
// client can always terminate a session, even with already-expired tokens.
// Both revocations are attempted; any failure aborts with the joined cause.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	accessClaims, accessErr := s.codec.DecodeLenient(accessToken)
	refreshClaims, refreshErr := s.codec.DecodeLenient(refreshToken)
	if err := errors.Join(accessErr, refreshErr); err != nil {
		return apperrors.NewBadRequest("failed to blacklist token", err)
	}

	err := errors.Join(
		s.ledger.Revoke(ctx, auth.TokenKindAccess, accessToken, claimedExpiry(accessClaims)),
		s.ledger.Revoke(ctx, auth.TokenKindRefresh, refreshToken, claimedExpiry(refreshClaims)),
	)
	if err != nil {
		return apperrors.NewBadRequest("failed to blacklist token", err)
	}

	s.emit(ctx, events.EventSessionRevoked, accessClaims.PrincipalID, accessClaims.Role)
	return nil
}

// generateTokens issues a fresh pair and records the access token in the
// ledger as valid with its owner, for the access token's lifetime.
func (s *SessionService) generateTokens(ctx context.Context, principalID string, role domain.Role) (*domain.TokenPair, error) {
	accessToken, _, err := s.codec.IssueAccess(principalID, role)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.codec.IssueRefresh(principalID, role)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.MarkValid(ctx, auth.TokenKindAccess, accessToken, principalID, role, s.codec.AccessTTL()); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		PrincipalID:  principalID,
	}, nil
}

// resolvePrincipal confirms the claimed principal still exists in the store
// matching its role.
func (s *SessionService) resolvePrincipal(ctx context.Context, id string, role domain.Role) (string, error) {
	if role == domain.RoleCustomer {
		customer, err := s.customers.GetByID(ctx, id)
		if err != nil {
			return "", err
		}
		if customer == nil {
			return "", apperrors.NewBadRequest("user not found", nil)
		}
		return customer.ID, nil
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.NewBadRequest("user not found", nil)
	}
	return user.ID, nil
}

func (s *SessionService) emit(ctx context.Context, eventType events.EventType, principalID string, role domain.Role) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Role: role, PrincipalID: principalID},
		Timestamp: time.Now(),
		Payload:   events.SessionPayload{PrincipalID: principalID, Role: role},
	})
}

func claimedExpiry(claims *auth.Claims) time.Time {
	if claims == nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
