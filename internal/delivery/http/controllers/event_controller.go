package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	h "danceregistry/internal/delivery/http/helpers"
	"danceregistry/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Year               int        `json:"year"`
	Name               string     `json:"name"`
	Date               *time.Time `json:"date"`
	MaxCapacity        int        `json:"max_capacity"`
	IsActive           *bool      `json:"is_active"`
	RegistrationOpen   *bool      `json:"registration_open"`
	WaitingListEnabled *bool      `json:"waiting_list_enabled"`
	Price              *float64   `json:"price"`
	Venue              string     `json:"venue"`
	Address            string     `json:"address"`
	Description        *string    `json:"description"`
}

// Validate implements Validator. Bounds are enforced by the service;
// this checks the required fields are present.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Year == 0 {
		errs = append(errs, "year is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "event name is required")
	}
	if c.Date == nil {
		errs = append(errs, "event date is required")
	}
	if c.MaxCapacity == 0 {
		errs = append(errs, "maximum capacity is required")
	}
	if c.Price == nil {
		errs = append(errs, "price is required")
	}
	if strings.TrimSpace(c.Venue) == "" {
		errs = append(errs, "venue is required")
	}
	if strings.TrimSpace(c.Address) == "" {
		errs = append(errs, "address is required")
	}
	return errs
}

// toEvent builds the domain event, applying the original defaults:
// registration open and waiting list enabled unless stated otherwise.
func (c CreateEventRequest) toEvent() *domain.Event {
	e := &domain.Event{
		Year:               c.Year,
		Name:               c.Name,
		MaxCapacity:        c.MaxCapacity,
		RegistrationOpen:   true,
		WaitingListEnabled: true,
		Venue:              c.Venue,
		Address:            c.Address,
		Description:        c.Description,
	}
	if c.Date != nil {
		e.Date = *c.Date
	}
	if c.Price != nil {
		e.Price = *c.Price
	}
	if c.IsActive != nil {
		e.IsActive = *c.IsActive
	}
	if c.RegistrationOpen != nil {
		e.RegistrationOpen = *c.RegistrationOpen
	}
	if c.WaitingListEnabled != nil {
		e.WaitingListEnabled = *c.WaitingListEnabled
	}
	return e
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrValidation):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// pathEventID extracts and validates the eventID path parameter.
func pathEventID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("eventID")
	if !uuidRegex.MatchString(id) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event ID")
		return "", false
	}
	return id, true
}

// ListEvents godoc
// @Summary List all events
// @Description Returns all events ordered by year descending.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListAll(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetActiveEvent godoc
// @Summary Get the active event
// @Description Returns the single event currently marked active. Public endpoint.
// @Tags events
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the active event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/active [get]
func (c *EventController) GetActiveEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "no active event found")
			return
		}
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a new event edition. Registration open and waiting list enabled default to true; is_active defaults to false. Creating an active event deactivates all others.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.Create(r.Context(), event); err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Partially update an event; only the provided fields change. Setting is_active to true deactivates all other events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body domain.EventUpdate true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	var upd domain.EventUpdate
	if !h.DecodeAndValidate(w, r, &upd) {
		return
	}
	event, err := c.Service.Update(r.Context(), id, &upd)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event. Existing registrations keep their snapshot of the event fields.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "Event deleted successfully"})
}

// ActivateEvent godoc
// @Summary Activate an event
// @Description Marks the event active and deactivates every other event in the same operation.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the activated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{eventID}/activate [patch]
func (c *EventController) ActivateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathEventID(w, r)
	if !ok {
		return
	}
	event, err := c.Service.Activate(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}
