package events

import (
	"time"

	"github.com/spec-kit/trip-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn     EventType = "user_logged_in"
	EventSessionRefreshed EventType = "session_refreshed"
	EventSessionRevoked   EventType = "session_revoked"
	EventTripCreated      EventType = "trip_created"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Role        domain.Role `json:"role"`
	PrincipalID string      `json:"principal_id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SessionPayload accompanies login, refresh and logout events.
type SessionPayload struct {
	PrincipalID string      `json:"principal_id"`
	Role        domain.Role `json:"role"`
}

// TripCreatedPayload payload.
type TripCreatedPayload struct {
	TripID      string `json:"trip_id"`
	CustomerID  string `json:"customer_id"`
	Destination string `json:"destination"`
}
