package domain

import "time"

// Customer is the domain model for customer accounts. Besides regular
// credentials a customer carries an opaque access token that gates the
// customer-facing routes.
type Customer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Token        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
