package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
)

const (
	TypeBookingCreated = "BOOKING_CREATED"
	TypeBookingUpdated = "BOOKING_UPDATED"
	TypeBookingDeleted = "BOOKING_DELETED"
)

// Service records change events in the outbox table. The outbox worker
// relays them to the broker, so a failed relay never loses an event and
// a failed write never emits one.
type Service struct {
	outboxRepo repository.OutboxRepository
}

func NewService(outboxRepo repository.OutboxRepository) *Service {
	return &Service{outboxRepo: outboxRepo}
}

func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	e := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
		Status:    string(model.OutboxStatusPending),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.outboxRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}
