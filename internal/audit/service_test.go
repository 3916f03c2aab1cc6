package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresEmployeeAndType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Type: EventLogin}); err == nil {
		t.Fatalf("expected error")
	}
	if err := svc.Append(context.Background(), Event{EmployeeID: "E001"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestService_RecordStampsEvent(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.RecordBy(context.Background(), EventUserUpdated, "E002", "E001", "10.0.0.7", "account type changed"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	e := evs[0]
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", e)
	}
	if e.ActorID != "E001" || e.EmployeeID != "E002" || e.IPAddress != "10.0.0.7" {
		t.Fatalf("unexpected event %+v", e)
	}
}

func TestService_NilIsNotConfigured(t *testing.T) {
	var svc *Service
	if err := svc.Record(context.Background(), EventLogin, "E001", "", ""); err == nil {
		t.Fatalf("expected error from nil service")
	}
}
