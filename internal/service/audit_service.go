package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/trip-service/internal/events"
)

// AuditService writes an audit log line for every session and trip event.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService builds the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit log to all event types.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventUserLoggedIn,
		events.EventSessionRefreshed,
		events.EventSessionRevoked,
		events.EventTripCreated,
	} {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	s.logger.Info("audit",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.String("actor_id", event.Actor.PrincipalID),
		zap.Time("at", event.Timestamp),
	)
	return nil
}
