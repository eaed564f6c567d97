package domain

import "time"

// User is the domain model for employee accounts (the default principal).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
