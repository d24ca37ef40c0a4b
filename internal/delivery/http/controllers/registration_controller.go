package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	h "danceregistry/internal/delivery/http/helpers"
	"danceregistry/internal/domain"
)

// CreateRegistrationRequest is the request body for POST /registrations.
type CreateRegistrationRequest struct {
	FirstName           string                   `json:"first_name"`
	LastName            string                   `json:"last_name"`
	Email               string                   `json:"email"`
	Phone               string                   `json:"phone"`
	Experience          string                   `json:"experience"`
	DietaryRestrictions *string                  `json:"dietary_restrictions"`
	EmergencyContact    *domain.EmergencyContact `json:"emergency_contact"`
	Notes               *string                  `json:"notes"`
}

// Validate implements Validator. Bounds and email format are enforced by
// the service; this checks the required fields are present.
func (c CreateRegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "first name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, "last name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(c.Phone) == "" {
		errs = append(errs, "phone number is required")
	}
	if strings.TrimSpace(c.Experience) == "" {
		errs = append(errs, "experience level is required")
	}
	return errs
}

func (c CreateRegistrationRequest) toRegistration() *domain.Registration {
	return &domain.Registration{
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		Phone:               c.Phone,
		Experience:          domain.Experience(strings.ToLower(strings.TrimSpace(c.Experience))),
		DietaryRestrictions: c.DietaryRestrictions,
		EmergencyContact:    c.EmergencyContact,
		Notes:               c.Notes,
	}
}

// RegistrationCreatedResponse is the success payload for POST /registrations.
type RegistrationCreatedResponse struct {
	Message string `json:"message"`
	*domain.AdmissionResult
}

// UpdateStatusRequest is the request body for PATCH /registrations/{registrationID}/status.
type UpdateStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// Validate implements Validator.
func (u UpdateStatusRequest) Validate() []string {
	if strings.TrimSpace(u.PaymentStatus) == "" {
		return []string{"payment status is required (pending, paid, cancelled, waiting)"}
	}
	return nil
}

// RegistrationListResponse is the success payload for GET /registrations.
type RegistrationListResponse struct {
	Registrations []*domain.RegistrationWithEvent `json:"registrations"`
	Pagination    h.PaginationMeta                `json:"pagination"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *RegistrationController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "registration not found")
	case errors.Is(err, domain.ErrNoActiveEvent):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "no active event found, registration is currently closed")
	case errors.Is(err, domain.ErrRegistrationClosed):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "registration is currently closed for this event")
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "a registration with this email already exists")
	case errors.Is(err, domain.ErrInvalidStatus):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "valid payment status required (pending, paid, cancelled, waiting)")
	case errors.Is(err, domain.ErrValidation):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// pathRegistrationID extracts and validates the registrationID path parameter.
func pathRegistrationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("registrationID")
	if !uuidRegex.MatchString(id) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid registration ID")
		return "", false
	}
	return id, true
}

// CreateRegistration godoc
// @Summary Register for the active event
// @Description Public registration endpoint. The registrant is seated (pending) or waitlisted (waiting) depending on the active event's remaining capacity; a confirmation email is sent best-effort.
// @Tags registrations
// @Accept json
// @Produce json
// @Param body body CreateRegistrationRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains the registration and admission details"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [post]
func (c *RegistrationController) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Register(r.Context(), req.toRegistration())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	message := "Registration successful"
	if result.IsWaitingList {
		message = "Registration successful! You have been added to the waiting list."
	}
	h.WriteJSONSuccess(w, http.StatusCreated, RegistrationCreatedResponse{
		Message:         message,
		AdmissionResult: result,
	})
}

// ListRegistrations godoc
// @Summary List registrations
// @Description Paginated admin listing with case-insensitive search over names and email, and exact status/experience filters. Each row embeds a summary of its event.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param search query string false "Substring match on first name, last name, or email"
// @Param status query string false "Exact payment status"
// @Param experience query string false "Exact experience level"
// @Success 200 {object} helpers.APIResponse "data contains registrations and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	params := h.ParsePagination(r)
	q := r.URL.Query()
	filter := domain.RegistrationFilter{
		Search:     strings.TrimSpace(q.Get("search")),
		Status:     domain.PaymentStatus(q.Get("status")),
		Experience: domain.Experience(q.Get("experience")),
	}
	regs, total, err := c.Service.List(r.Context(), filter, params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, RegistrationListResponse{
		Registrations: regs,
		Pagination:    h.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// GetRegistrationByID godoc
// @Summary Get a registration by ID
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/{registrationID} [get]
func (c *RegistrationController) GetRegistrationByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// UpdateRegistrationStatus godoc
// @Summary Update a registration's payment status
// @Description Sets the payment status. Transitions to paid send a payment confirmation; transitions to pending send the off-waiting-list registration confirmation. Email failures never fail the update.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Param body body UpdateStatusRequest true "New payment status"
// @Success 200 {object} helpers.APIResponse "data contains the updated registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/{registrationID}/status [patch]
func (c *RegistrationController) UpdateRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	reg, err := c.Service.SetStatus(r.Context(), id, domain.PaymentStatus(strings.ToLower(strings.TrimSpace(req.PaymentStatus))))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// DeleteRegistration godoc
// @Summary Delete a registration
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains a confirmation message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /registrations/{registrationID} [delete]
func (c *RegistrationController) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathRegistrationID(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), id); err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "Registration deleted successfully"})
}

// GetStats godoc
// @Summary Registration statistics overview
// @Description Counts by payment status, occupied seats, experience breakdown, and the five most recent registrations. Optionally scoped to one event by id or year.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Scope to one event by ID"
// @Param event_year query int false "Scope to one event by year (ignored when event_id is set)"
// @Success 200 {object} helpers.APIResponse "data contains the stats overview"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/stats/overview [get]
func (c *RegistrationController) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.StatsFilter{EventID: strings.TrimSpace(q.Get("event_id"))}
	if s := q.Get("event_year"); s != "" {
		if year, err := strconv.Atoi(s); err == nil {
			filter.EventYear = year
		}
	}
	overview, err := c.Service.Stats(r.Context(), filter)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, overview)
}
