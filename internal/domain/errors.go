package domain

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails domain validation. It is
// joined with a message describing the failing field.
var ErrValidation = errors.New("validation failed")

// ErrUnauthenticated is returned for missing, malformed, expired, or
// otherwise unverifiable credentials.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrDuplicateEmail is returned when a registration already exists for
// the given email address.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrNoActiveEvent is returned when registration is attempted while no
// event is active.
var ErrNoActiveEvent = errors.New("no active event")

// ErrRegistrationClosed is returned when the active event is not
// accepting registrations.
var ErrRegistrationClosed = errors.New("registration closed")

// ErrInvalidStatus is returned for a payment status outside the allowed
// set.
var ErrInvalidStatus = errors.New("invalid payment status")
