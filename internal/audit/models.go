package audit

import "time"

// Event is an append-only record of an authentication or account action.
//
// Events are never updated or deleted. Recording is best-effort; callers do not
// fail a request because an event could not be written.
type Event struct {
	ID   string    `json:"id" db:"id"`
	Type EventType `json:"type" db:"type"`

	// EmployeeID is the account the event is about. For failed logins it is the
	// id that was attempted and may not exist.
	EmployeeID string `json:"employee_id" db:"employee_id"`
	// ActorID is who caused the event when that differs from EmployeeID,
	// e.g. an admin editing another user.
	ActorID string `json:"actor_id,omitempty" db:"actor_id"`

	IPAddress string    `json:"ip_address,omitempty" db:"ip_address"`
	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventLogin          EventType = "login"
	EventLoginFailed    EventType = "login_failed"
	EventLogout         EventType = "logout"
	EventRefreshDenied  EventType = "refresh_denied"
	EventProfileUpdated EventType = "profile_updated"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
)
