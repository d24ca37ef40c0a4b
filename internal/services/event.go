package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"danceregistry/internal/domain"
)

// Field bounds for events.
const (
	minEventYear      = 2020
	maxEventNameLen   = 100
	maxVenueLen       = 200
	maxAddressLen     = 200
	maxDescriptionLen = 1000
)

type eventService struct {
	events domain.EventRepository
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(events domain.EventRepository) domain.EventService {
	return &eventService{events: events}
}

func validationError(errs []string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
}

func validateEvent(e *domain.Event) []string {
	var errs []string
	if e.Year < minEventYear {
		errs = append(errs, fmt.Sprintf("year must be %d or later", minEventYear))
	}
	if e.Name == "" {
		errs = append(errs, "event name is required")
	} else if len(e.Name) > maxEventNameLen {
		errs = append(errs, fmt.Sprintf("event name cannot exceed %d characters", maxEventNameLen))
	}
	if e.Date.IsZero() {
		errs = append(errs, "event date is required")
	}
	if e.MaxCapacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if e.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if e.Venue == "" {
		errs = append(errs, "venue is required")
	} else if len(e.Venue) > maxVenueLen {
		errs = append(errs, fmt.Sprintf("venue cannot exceed %d characters", maxVenueLen))
	}
	if e.Address == "" {
		errs = append(errs, "address is required")
	} else if len(e.Address) > maxAddressLen {
		errs = append(errs, fmt.Sprintf("address cannot exceed %d characters", maxAddressLen))
	}
	if e.Description != nil && len(*e.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description cannot exceed %d characters", maxDescriptionLen))
	}
	return errs
}

func (s *eventService) Create(ctx context.Context, e *domain.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Address = strings.TrimSpace(e.Address)
	if errs := validateEvent(e); len(errs) > 0 {
		return validationError(errs)
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if err := s.events.Create(ctx, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *eventService) GetActive(ctx context.Context) (*domain.Event, error) {
	return s.events.GetActive(ctx)
}

func (s *eventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.events.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func validateEventUpdate(upd *domain.EventUpdate) []string {
	var errs []string
	if upd.Year != nil && *upd.Year < minEventYear {
		errs = append(errs, fmt.Sprintf("year must be %d or later", minEventYear))
	}
	if upd.Name != nil {
		if *upd.Name == "" {
			errs = append(errs, "event name is required")
		} else if len(*upd.Name) > maxEventNameLen {
			errs = append(errs, fmt.Sprintf("event name cannot exceed %d characters", maxEventNameLen))
		}
	}
	if upd.MaxCapacity != nil && *upd.MaxCapacity < 1 {
		errs = append(errs, "capacity must be at least 1")
	}
	if upd.Price != nil && *upd.Price < 0 {
		errs = append(errs, "price cannot be negative")
	}
	if upd.Venue != nil {
		if *upd.Venue == "" {
			errs = append(errs, "venue is required")
		} else if len(*upd.Venue) > maxVenueLen {
			errs = append(errs, fmt.Sprintf("venue cannot exceed %d characters", maxVenueLen))
		}
	}
	if upd.Address != nil {
		if *upd.Address == "" {
			errs = append(errs, "address is required")
		} else if len(*upd.Address) > maxAddressLen {
			errs = append(errs, fmt.Sprintf("address cannot exceed %d characters", maxAddressLen))
		}
	}
	if upd.Description != nil && len(*upd.Description) > maxDescriptionLen {
		errs = append(errs, fmt.Sprintf("description cannot exceed %d characters", maxDescriptionLen))
	}
	return errs
}

func (s *eventService) Update(ctx context.Context, id string, upd *domain.EventUpdate) (*domain.Event, error) {
	if errs := validateEventUpdate(upd); len(errs) > 0 {
		return nil, validationError(errs)
	}
	event, err := s.events.Update(ctx, id, upd)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

func (s *eventService) Activate(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.Activate(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("activate event: %w", err)
	}
	return event, nil
}
