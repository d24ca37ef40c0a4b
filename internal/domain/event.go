package domain

import (
	"context"
	"time"
)

// Event represents a single edition of the dance event.
// swagger:model Event
type Event struct {
	ID                 string    `json:"id"`
	Year               int       `json:"year"`
	Name               string    `json:"name"`
	Date               time.Time `json:"date"`
	MaxCapacity        int       `json:"max_capacity"`
	IsActive           bool      `json:"is_active"`
	RegistrationOpen   bool      `json:"registration_open"`
	WaitingListEnabled bool      `json:"waiting_list_enabled"`
	Price              float64   `json:"price"`
	Venue              string    `json:"venue"`
	Address            string    `json:"address"`
	Description        *string   `json:"description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// EventSummary is the denormalized event view embedded in registration listings.
type EventSummary struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Year int       `json:"year"`
	Date time.Time `json:"date"`
}

// Summary returns the embeddable summary view of the event.
func (e *Event) Summary() *EventSummary {
	return &EventSummary{ID: e.ID, Name: e.Name, Year: e.Year, Date: e.Date}
}

// EventUpdate carries the optional fields of a partial event update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Year               *int       `json:"year"`
	Name               *string    `json:"name"`
	Date               *time.Time `json:"date"`
	MaxCapacity        *int       `json:"max_capacity"`
	IsActive           *bool      `json:"is_active"`
	RegistrationOpen   *bool      `json:"registration_open"`
	WaitingListEnabled *bool      `json:"waiting_list_enabled"`
	Price              *float64   `json:"price"`
	Venue              *string    `json:"venue"`
	Address            *string    `json:"address"`
	Description        *string    `json:"description"`
}

// EventRepository defines the interface for event storage.
// Implementations must guarantee that at most one event has IsActive set:
// any write persisting IsActive=true clears the flag on every other event
// within the same transaction.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetActive returns the single active event, or ErrNotFound when none is active.
	GetActive(ctx context.Context) (*Event, error)
	// GetByYear returns the event for the given year, or ErrNotFound.
	GetByYear(ctx context.Context, year int) (*Event, error)
	// ListAll returns all events ordered by year descending.
	ListAll(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, upd *EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	// Activate marks the event active and deactivates all others atomically.
	Activate(ctx context.Context, id string) (*Event, error)
}

// EventService defines admin-facing event management operations.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetActive(ctx context.Context) (*Event, error)
	ListAll(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, upd *EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) (*Event, error)
}
