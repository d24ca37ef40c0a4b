package domain

import (
	"context"
	"time"
)

// PaymentStatus is the lifecycle state of a registration's payment.
type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusPaid      PaymentStatus = "paid"
	StatusCancelled PaymentStatus = "cancelled"
	StatusWaiting   PaymentStatus = "waiting"
)

// Valid reports whether s is one of the four allowed payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusWaiting:
		return true
	}
	return false
}

// Experience is the registrant's self-reported dance level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Valid reports whether e is one of the allowed experience levels.
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// EmergencyContact is an optional contact stored with a registration.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Registration represents an attendee's registration. The event fields
// (EventID, EventYear, EventDate, Price) are a snapshot of the event that
// was active at submission time and never change afterwards.
// swagger:model Registration
type Registration struct {
	ID                  string            `json:"id"`
	FirstName           string            `json:"first_name"`
	LastName            string            `json:"last_name"`
	Email               string            `json:"email"`
	Phone               string            `json:"phone"`
	Experience          Experience        `json:"experience"`
	DietaryRestrictions *string           `json:"dietary_restrictions,omitempty"`
	EmergencyContact    *EmergencyContact `json:"emergency_contact,omitempty"`
	Notes               *string           `json:"notes,omitempty"`
	PaymentStatus       PaymentStatus     `json:"payment_status"`
	EventID             string            `json:"event_id"`
	EventYear           int               `json:"event_year"`
	EventDate           time.Time         `json:"event_date"`
	Price               float64           `json:"price"`
	RegistrationDate    time.Time         `json:"registration_date"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// RegistrationWithEvent bundles a registration with a summary of its event.
// Event is nil when the event has since been deleted.
type RegistrationWithEvent struct {
	*Registration
	Event *EventSummary `json:"event"`
}

// RegistrationFilter narrows registration listings. Search matches
// first name, last name, or email case-insensitively as a substring;
// Status and Experience match exactly when non-empty.
type RegistrationFilter struct {
	Search     string
	Status     PaymentStatus
	Experience Experience
}

// StatsFilter scopes the stats overview to one event, by id or by year.
type StatsFilter struct {
	EventID   string
	EventYear int
}

// StatusCounts holds per-status registration counts plus the number of
// occupied seats (registrations that are neither cancelled nor waiting).
type StatusCounts struct {
	Total     int `json:"total"`
	Paid      int `json:"paid"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
	Waiting   int `json:"waiting"`
	Occupied  int `json:"occupied"`
}

// ExperienceCount is one row of the experience-level breakdown.
type ExperienceCount struct {
	Experience Experience `json:"experience"`
	Count      int        `json:"count"`
}

// RegistrationRepository defines storage operations for registrations.
// Emails are stored lowercased and are unique across all registrations;
// Create returns ErrDuplicateEmail on a conflict.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	// Find returns a page of registrations ordered by registration date
	// descending, plus the total count matching the filter.
	Find(ctx context.Context, filter RegistrationFilter, p PaginationParams) ([]*Registration, int, error)
	// CountOccupied counts registrations for the event whose status is
	// neither cancelled nor waiting.
	CountOccupied(ctx context.Context, eventID string) (int, error)
	CountByStatus(ctx context.Context, filter StatsFilter) (*StatusCounts, error)
	ExperienceBreakdown(ctx context.Context, filter StatsFilter) ([]*ExperienceCount, error)
	// ListRecent returns the most recent registrations matching the filter.
	ListRecent(ctx context.Context, filter StatsFilter, limit int) ([]*Registration, error)
	UpdateStatus(ctx context.Context, id string, status PaymentStatus) (*Registration, error)
	Delete(ctx context.Context, id string) error
}

// AdmissionResult is what the admission engine reports back to the caller
// after a successful registration.
type AdmissionResult struct {
	Registration     *Registration `json:"registration"`
	IsWaitingList    bool          `json:"is_waiting_list"`
	CurrentOccupancy int           `json:"current_registrations"`
	MaxCapacity      int           `json:"max_registrations"`
	EventName        string        `json:"event_name"`
	EventYear        int           `json:"event_year"`
}

// StatsOverview is the admin dashboard summary.
type StatsOverview struct {
	Counts              *StatusCounts      `json:"counts"`
	MaxCapacity         int                `json:"max_capacity"`
	ExperienceStats     []*ExperienceCount `json:"experience_stats"`
	RecentRegistrations []*Registration    `json:"recent_registrations"`
	Event               *Event             `json:"event,omitempty"`
}

// RegistrationService defines the registration workflows: public
// admission, admin listing and inspection, the payment-status transition
// workflow, and the stats overview.
type RegistrationService interface {
	// Register runs the admission decision for the active event and
	// persists the registration. Returns ErrNoActiveEvent,
	// ErrRegistrationClosed, ErrValidation, or ErrDuplicateEmail.
	Register(ctx context.Context, reg *Registration) (*AdmissionResult, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	List(ctx context.Context, filter RegistrationFilter, p PaginationParams) ([]*RegistrationWithEvent, int, error)
	// SetStatus persists a payment-status change and fires the matching
	// confirmation email (best-effort, never affecting the result).
	SetStatus(ctx context.Context, id string, status PaymentStatus) (*Registration, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, filter StatsFilter) (*StatsOverview, error)
}
