package domain

import "time"

// Trip is a journey booked by a customer.
type Trip struct {
	ID          string
	CustomerID  string
	StartDate   time.Time
	EndDate     time.Time
	Destination string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
