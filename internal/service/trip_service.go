package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/events"
	"github.com/spec-kit/trip-service/internal/repository"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// TripService manages trip records.
type TripService struct {
	trips      repository.TripRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// NewTripService builds the service.
func NewTripService(trips repository.TripRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *TripService {
	return &TripService{trips: trips, customers: customers, dispatcher: dispatcher}
}

// Create books a trip for a customer.
func (s *TripService) Create(ctx context.Context, trip *domain.Trip) (*domain.Trip, error) {
	customer, err := s.customers.GetByID(ctx, trip.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperrors.NewNotFound("customer", nil)
	}

	if err := s.trips.Create(ctx, trip); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTripCreated,
			Actor:     events.Actor{Role: domain.RoleCustomer, PrincipalID: trip.CustomerID},
			Timestamp: time.Now(),
			Payload: events.TripCreatedPayload{
				TripID:      trip.ID,
				CustomerID:  trip.CustomerID,
				Destination: trip.Destination,
			},
		})
	}
	return trip, nil
}

// Get returns a trip by id.
func (s *TripService) Get(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperrors.NewNotFound("trip", nil)
	}
	return trip, nil
}

// DetailForCustomer returns a trip only when it belongs to the calling
// customer.
func (s *TripService) DetailForCustomer(ctx context.Context, customerID, tripID string) (*domain.Trip, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.CustomerID != customerID {
		return nil, apperrors.NewForbidden("you are not allowed to view this trip")
	}
	return trip, nil
}

// ListByCustomer returns all trips booked by the customer.
func (s *TripService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Trip, error) {
	return s.trips.ListByCustomer(ctx, customerID)
}

// Update applies changes to an existing trip.
func (s *TripService) Update(ctx context.Context, id string, startDate, endDate *time.Time, destination string) (*domain.Trip, error) {
	trip, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if startDate != nil {
		trip.StartDate = *startDate
	}
	if endDate != nil {
		trip.EndDate = *endDate
	}
	if destination != "" {
		trip.Destination = destination
	}

	if err := s.trips.Update(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Delete removes a trip.
func (s *TripService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.trips.Delete(ctx, id)
}
