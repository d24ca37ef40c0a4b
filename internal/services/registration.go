package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"danceregistry/internal/domain"
)

// Field bounds for registrations.
const (
	maxNameLen    = 50
	maxDietaryLen = 200
	maxNotesLen   = 500

	recentRegistrationsLimit = 5
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type registrationService struct {
	events        domain.EventRepository
	registrations domain.RegistrationRepository
	emails        domain.EmailService
	logger        *slog.Logger

	// dispatch runs best-effort side effects (confirmation emails).
	// The default runs them on a detached goroutine.
	dispatch func(func())

	// admission is serialized per event so two concurrent submissions
	// cannot both read the same occupancy and overshoot capacity.
	mu             sync.Mutex
	admissionLocks map[string]*sync.Mutex
}

// NewRegistrationService creates the RegistrationService. Confirmation
// emails are sent on a detached goroutine; failures are logged and never
// affect the caller's result.
func NewRegistrationService(
	events domain.EventRepository,
	registrations domain.RegistrationRepository,
	emails domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return newRegistrationService(events, registrations, emails, logger, func(fn func()) { go fn() })
}

func newRegistrationService(
	events domain.EventRepository,
	registrations domain.RegistrationRepository,
	emails domain.EmailService,
	logger *slog.Logger,
	dispatch func(func()),
) *registrationService {
	return &registrationService{
		events:         events,
		registrations:  registrations,
		emails:         emails,
		logger:         logger,
		dispatch:       dispatch,
		admissionLocks: make(map[string]*sync.Mutex),
	}
}

func (s *registrationService) admissionLock(eventID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.admissionLocks[eventID]
	if !ok {
		l = &sync.Mutex{}
		s.admissionLocks[eventID] = l
	}
	return l
}

func validateRegistration(reg *domain.Registration) []string {
	var errs []string
	if reg.FirstName == "" {
		errs = append(errs, "first name is required")
	} else if len(reg.FirstName) > maxNameLen {
		errs = append(errs, fmt.Sprintf("first name cannot exceed %d characters", maxNameLen))
	}
	if reg.LastName == "" {
		errs = append(errs, "last name is required")
	} else if len(reg.LastName) > maxNameLen {
		errs = append(errs, fmt.Sprintf("last name cannot exceed %d characters", maxNameLen))
	}
	if reg.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(reg.Email) {
		errs = append(errs, "invalid email format")
	}
	if reg.Phone == "" {
		errs = append(errs, "phone number is required")
	}
	if !reg.Experience.Valid() {
		errs = append(errs, "experience must be beginner, intermediate, or advanced")
	}
	if reg.DietaryRestrictions != nil && len(*reg.DietaryRestrictions) > maxDietaryLen {
		errs = append(errs, fmt.Sprintf("dietary restrictions cannot exceed %d characters", maxDietaryLen))
	}
	if reg.Notes != nil && len(*reg.Notes) > maxNotesLen {
		errs = append(errs, fmt.Sprintf("notes cannot exceed %d characters", maxNotesLen))
	}
	return errs
}

// Register runs the admission decision against the active event and
// persists the registration with a snapshot of the event's fields.
func (s *registrationService) Register(ctx context.Context, reg *domain.Registration) (*domain.AdmissionResult, error) {
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Phone = strings.TrimSpace(reg.Phone)
	if errs := validateRegistration(reg); len(errs) > 0 {
		return nil, validationError(errs)
	}

	event, err := s.events.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveEvent
		}
		return nil, fmt.Errorf("get active event: %w", err)
	}
	if !event.RegistrationOpen {
		return nil, domain.ErrRegistrationClosed
	}

	lock := s.admissionLock(event.ID)
	lock.Lock()
	defer lock.Unlock()

	occupied, err := s.registrations.CountOccupied(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count occupied seats: %w", err)
	}
	isWaiting := event.WaitingListEnabled && occupied >= event.MaxCapacity

	now := time.Now()
	reg.PaymentStatus = domain.StatusPending
	if isWaiting {
		reg.PaymentStatus = domain.StatusWaiting
	}
	reg.EventID = event.ID
	reg.EventYear = event.Year
	reg.EventDate = event.Date
	reg.Price = event.Price
	reg.RegistrationDate = now
	reg.CreatedAt = now
	reg.UpdatedAt = now

	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendRegistrationConfirmation(reg, event, isWaiting)

	occupancy := occupied
	if !isWaiting {
		occupancy++
	}
	return &domain.AdmissionResult{
		Registration:     reg,
		IsWaitingList:    isWaiting,
		CurrentOccupancy: occupancy,
		MaxCapacity:      event.MaxCapacity,
		EventName:        event.Name,
		EventYear:        event.Year,
	}, nil
}

func (s *registrationService) sendRegistrationConfirmation(reg *domain.Registration, event *domain.Event, onWaitingList bool) {
	data := &domain.RegistrationEmailData{
		FirstName:        reg.FirstName,
		LastName:         reg.LastName,
		Email:            reg.Email,
		Experience:       string(reg.Experience),
		RegistrationDate: reg.RegistrationDate.Format(time.RFC3339),
		OnWaitingList:    onWaitingList,
		EventName:        event.Name,
		EventDate:        event.Date.Format("January 2, 2006"),
		Venue:            event.Venue,
		Address:          event.Address,
		Price:            event.Price,
	}
	s.dispatch(func() {
		if err := s.emails.SendRegistrationConfirmation(context.Background(), data); err != nil {
			s.logger.Error("registration confirmation email failed", "email", reg.Email, "err", err)
		}
	})
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	return s.registrations.GetByID(ctx, id)
}

func (s *registrationService) List(ctx context.Context, filter domain.RegistrationFilter, p domain.PaginationParams) ([]*domain.RegistrationWithEvent, int, error) {
	regs, total, err := s.registrations.Find(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("find registrations: %w", err)
	}

	// Fetch events one by one with a memo map; the handful of editions
	// makes N+1 a non-issue here.
	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.events.GetByID(ctx, reg.EventID)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return nil, 0, fmt.Errorf("get event for registration: %w", err)
				}
				// Event deleted; the registration keeps its snapshot.
				ev = nil
			}
			eventsByID[reg.EventID] = ev
		}
		item := &domain.RegistrationWithEvent{Registration: reg}
		if ev != nil {
			item.Event = ev.Summary()
		}
		result = append(result, item)
	}
	return result, total, nil
}

// SetStatus persists the payment-status change and fires the matching
// confirmation email: paid triggers the payment confirmation, pending
// (promotion off the waiting list) the registration confirmation.
// Transitions to cancelled or waiting send nothing.
func (s *registrationService) SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Registration, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	reg, err := s.registrations.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update registration status: %w", err)
	}

	switch status {
	case domain.StatusPaid:
		s.sendPaymentConfirmation(reg)
	case domain.StatusPending:
		event := s.eventForEmail(reg)
		s.sendRegistrationConfirmation(reg, event, false)
	}
	return reg, nil
}

func (s *registrationService) sendPaymentConfirmation(reg *domain.Registration) {
	event := s.eventForEmail(reg)
	data := &domain.PaymentEmailData{
		FirstName:  reg.FirstName,
		LastName:   reg.LastName,
		Email:      reg.Email,
		Experience: string(reg.Experience),
		EventName:  event.Name,
		EventDate:  event.Date.Format("January 2, 2006"),
		Venue:      event.Venue,
		Address:    event.Address,
	}
	s.dispatch(func() {
		if err := s.emails.SendPaymentConfirmation(context.Background(), data); err != nil {
			s.logger.Error("payment confirmation email failed", "email", reg.Email, "err", err)
		}
	})
}

// eventForEmail resolves the registration's event for email content,
// falling back to the registration's snapshot when the event is gone.
func (s *registrationService) eventForEmail(reg *domain.Registration) *domain.Event {
	event, err := s.events.GetByID(context.Background(), reg.EventID)
	if err == nil {
		return event
	}
	return &domain.Event{
		ID:    reg.EventID,
		Name:  fmt.Sprintf("the %d event", reg.EventYear),
		Year:  reg.EventYear,
		Date:  reg.EventDate,
		Price: reg.Price,
	}
}

func (s *registrationService) Delete(ctx context.Context, id string) error {
	return s.registrations.Delete(ctx, id)
}

func (s *registrationService) Stats(ctx context.Context, filter domain.StatsFilter) (*domain.StatsOverview, error) {
	counts, err := s.registrations.CountByStatus(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	experience, err := s.registrations.ExperienceBreakdown(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("experience breakdown: %w", err)
	}
	recent, err := s.registrations.ListRecent(ctx, filter, recentRegistrationsLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent registrations: %w", err)
	}

	overview := &domain.StatsOverview{
		Counts:              counts,
		ExperienceStats:     experience,
		RecentRegistrations: recent,
	}
	var event *domain.Event
	if filter.EventID != "" {
		event, err = s.events.GetByID(ctx, filter.EventID)
	} else if filter.EventYear != 0 {
		event, err = s.events.GetByYear(ctx, filter.EventYear)
	}
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get event for stats: %w", err)
	}
	if event != nil {
		overview.Event = event
		overview.MaxCapacity = event.MaxCapacity
	}
	return overview, nil
}
