// Package repository defines error values reused across repositories.
// These sentinels let the service and handler layers distinguish
// failure scenarios without inspecting SQL errors. For example,
// ErrBookingNotFound maps to an HTTP 404 while ErrPayeeNotFound
// indicates a payment update that referenced a payee with no share
// in the booking.
package repository

import "errors"

// ErrVenueNotFound is returned when a referenced venue does not exist.
var ErrVenueNotFound = errors.New("venue not found")

// ErrCoachNotFound is returned when a referenced coach does not exist.
var ErrCoachNotFound = errors.New("coach not found")

// ErrBookingNotFound is returned when a booking lookup by id or
// verification token matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPayeeNotFound is returned when a payment-status update names a
// payee that has no payment record embedded in the booking.
var ErrPayeeNotFound = errors.New("payee not found in booking")
