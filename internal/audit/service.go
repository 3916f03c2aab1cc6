package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
// It is append-only; there is no Update or Delete.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" || e.EmployeeID == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends an event about employeeID caused by that same employee.
func (s *Service) Record(ctx context.Context, t EventType, employeeID, ip, message string) error {
	return s.Append(ctx, Event{
		Type:       t,
		EmployeeID: employeeID,
		IPAddress:  ip,
		Message:    message,
	})
}

// RecordBy appends an event about employeeID caused by actorID.
func (s *Service) RecordBy(ctx context.Context, t EventType, employeeID, actorID, ip, message string) error {
	return s.Append(ctx, Event{
		Type:       t,
		EmployeeID: employeeID,
		ActorID:    actorID,
		IPAddress:  ip,
		Message:    message,
	})
}
