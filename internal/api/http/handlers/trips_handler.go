package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trip-service/internal/api/dto"
	"github.com/spec-kit/trip-service/internal/auth"
	"github.com/spec-kit/trip-service/internal/domain"
	"github.com/spec-kit/trip-service/internal/service"
	apperrors "github.com/spec-kit/trip-service/pkg/util"
)

// TripsHandler exposes trip endpoints for employees and customers.
type TripsHandler struct {
	trips *service.TripService
}

// NewTripsHandler constructs handler.
func NewTripsHandler(trips *service.TripService) *TripsHandler {
	return &TripsHandler{trips: trips}
}

// Create handles POST /trips.
func (h *TripsHandler) Create(c *fiber.Ctx) error {
	var req dto.TripCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID == "" || req.Destination == "" {
		return apperrors.NewValidationError("customer_id and destination required", nil)
	}

	trip, err := h.trips.Create(c.UserContext(), &domain.Trip{
		CustomerID:  req.CustomerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Destination: req.Destination,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": tripResponse(trip)})
}

// Get handles GET /trips/:id.
func (h *TripsHandler) Get(c *fiber.Ctx) error {
	trip, err := h.trips.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tripResponse(trip)})
}

// Update handles PATCH /trips/:id.
func (h *TripsHandler) Update(c *fiber.Ctx) error {
	var req dto.TripUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	trip, err := h.trips.Update(c.UserContext(), c.Params("id"), req.StartDate, req.EndDate, req.Destination)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tripResponse(trip)})
}

// Delete handles DELETE /trips/:id.
func (h *TripsHandler) Delete(c *fiber.Ctx) error {
	if err := h.trips.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// MyTrips handles GET /customer/trips for the authenticated customer.
func (h *TripsHandler) MyTrips(c *fiber.Ctx) error {
	customer, ok := auth.CurrentCustomer(c)
	if !ok {
		return apperrors.NewUnauthorized("customer not found")
	}

	trips, err := h.trips.ListByCustomer(c.UserContext(), customer.ID)
	if err != nil {
		return err
	}

	responses := make([]dto.TripResponse, 0, len(trips))
	for i := range trips {
		responses = append(responses, tripResponse(&trips[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// MyTripDetail handles GET /customer/trips/:id for the authenticated
// customer; trips owned by other customers are forbidden.
func (h *TripsHandler) MyTripDetail(c *fiber.Ctx) error {
	customer, ok := auth.CurrentCustomer(c)
	if !ok {
		return apperrors.NewUnauthorized("customer not found")
	}

	trip, err := h.trips.DetailForCustomer(c.UserContext(), customer.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tripResponse(trip)})
}

func tripResponse(trip *domain.Trip) dto.TripResponse {
	return dto.TripResponse{
		ID:          trip.ID,
		CustomerID:  trip.CustomerID,
		StartDate:   trip.StartDate,
		EndDate:     trip.EndDate,
		Destination: trip.Destination,
	}
}
