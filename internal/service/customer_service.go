package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/repository"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// opaqueTokenLength is the length of the customer access token in hex chars.
const opaqueTokenLength = 16

// CustomerService manages customer accounts.
type CustomerService struct {
	customers  repository.CustomerRepository
	bcryptCost int
}

// NewCustomerService builds the service.
func NewCustomerService(customers repository.CustomerRepository, bcryptCost int) *CustomerService {
	return &CustomerService{customers: customers, bcryptCost: bcryptCost}
}

// Create registers a customer account and mints its opaque access token.
func (s *CustomerService) Create(ctx context.Context, name, address string, cred domain.Credential) (*domain.Customer, error) {
	if err := cred.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	existing, err := s.customers.GetByEmail(ctx, cred.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewBadRequest("email is already in use", nil)
	}

	hash, err := auth.HashPassword(cred.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	token, err := randomHex(opaqueTokenLength)
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        cred.Email,
		PasswordHash: hash,
		Token:        token,
		Address:      address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get returns a customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.NewNotFound("customer", nil)
	}
	return customer, nil
}

// Update applies profile changes to an existing customer. The opaque token
// and password hash are not touched here.
func (s *CustomerService) Update(ctx context.Context, id, name, email, address string) (*domain.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		customer.Name = name
	}
	if email != "" {
		customer.Email = email
	}
	if address != "" {
		customer.Address = address
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes a customer account.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, id)
}

// randomHex returns a random hex string of the requested length.
func randomHex(length int) (string, error) {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf)[:length], nil
}
