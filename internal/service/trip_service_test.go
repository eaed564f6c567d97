package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/spec-kit/trip-service/internal/domain"
)

type memTripRepo struct {
	trips map[string]*domain.Trip
}

func (r *memTripRepo) Create(_ context.Context, trip *domain.Trip) error {
	if trip.ID == "" {
		trip.ID = fmt.Sprintf("t%d", len(r.trips)+1)
	}
	r.trips[trip.ID] = trip
	return nil
}

func (r *memTripRepo) Update(_ context.Context, trip *domain.Trip) error {
	r.trips[trip.ID] = trip
	return nil
}

func (r *memTripRepo) Delete(_ context.Context, id string) error {
	delete(r.trips, id)
	return nil
}

func (r *memTripRepo) GetByID(_ context.Context, id string) (*domain.Trip, error) {
	return r.trips[id], nil
}

func (r *memTripRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Trip, error) {
	var out []domain.Trip
	for _, trip := range r.trips {
		if trip.CustomerID == customerID {
			out = append(out, *trip)
		}
	}
	return out, nil
}

func newTripFixture() (*TripService, *memTripRepo) {
	trips := &memTripRepo{trips: map[string]*domain.Trip{}}
	customers := &memCustomerRepo{customers: map[string]*domain.Customer{
		"c1": {ID: "c1", Name: "Eve"},
		"c2": {ID: "c2", Name: "Mallory"},
	}}
	return NewTripService(trips, customers, nil), trips
}

func TestTripCreateRequiresCustomer(t *testing.T) {
	svc, _ := newTripFixture()

	_, err := svc.Create(context.Background(), &domain.Trip{CustomerID: "ghost", Destination: "Bali"})
	assertDomainError(t, err, http.StatusNotFound, "customer not found")
}

func TestTripDetailForCustomerOwnership(t *testing.T) {
	svc, repo := newTripFixture()
	repo.trips["t1"] = &domain.Trip{ID: "t1", CustomerID: "c1", Destination: "Bali"}

	trip, err := svc.DetailForCustomer(context.Background(), "c1", "t1")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if trip.Destination != "Bali" {
		t.Fatalf("unexpected trip: %+v", trip)
	}

	_, err = svc.DetailForCustomer(context.Background(), "c2", "t1")
	assertDomainError(t, err, http.StatusForbidden, "you are not allowed to view this trip")

	_, err = svc.DetailForCustomer(context.Background(), "c1", "missing")
	assertDomainError(t, err, http.StatusNotFound, "trip not found")
}

func TestTripUpdatePartial(t *testing.T) {
	svc, repo := newTripFixture()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	repo.trips["t1"] = &domain.Trip{ID: "t1", CustomerID: "c1", StartDate: start, EndDate: end, Destination: "Bali"}

	newEnd := end.AddDate(0, 0, 3)
	trip, err := svc.Update(context.Background(), "t1", nil, &newEnd, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !trip.StartDate.Equal(start) || !trip.EndDate.Equal(newEnd) || trip.Destination != "Bali" {
		t.Fatalf("unexpected update result: %+v", trip)
	}
}
