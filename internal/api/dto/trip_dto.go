package dto

import "time"

// TripCreateRequest payload for booking a trip.
type TripCreateRequest struct {
	CustomerID  string    `json:"customer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Destination string    `json:"destination"`
}

// TripUpdateRequest payload for trip changes; nil fields stay unchanged.
type TripUpdateRequest struct {
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Destination string     `json:"destination"`
}

// TripResponse is the public trip shape.
type TripResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Destination string    `json:"destination"`
}
