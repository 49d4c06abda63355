// Package service implements the booking lifecycle: slot-conflict
// checked initiation, split-payment settlement, QR-verified check-in
// and time-driven expiration. All booking mutation goes through
// BookingService so the confirm-only-when-all-paid invariant is
// enforced in one place.
package service

import "errors"

// ErrVenueSlotTaken indicates the requested interval overlaps an
// active booking on the venue. The caller must resubmit with a
// different slot; there is no automatic retry.
var ErrVenueSlotTaken = errors.New("venue slot already booked")

// ErrCoachSlotTaken indicates the requested interval overlaps an
// active booking on the coach.
var ErrCoachSlotTaken = errors.New("coach slot already booked")

// ErrCoachUnavailable indicates the requested interval does not fall
// entirely within one of the coach's weekly availability windows.
var ErrCoachUnavailable = errors.New("coach not available in requested window")

// ErrCoachNotPermitted indicates the venue does not allow external
// coaches and the requested coach does not own the venue.
var ErrCoachNotPermitted = errors.New("venue does not permit external coaches")

// ErrBookingExpired indicates the booking's payment hold window has
// elapsed; the caller should restart the booking flow.
var ErrBookingExpired = errors.New("booking expired")

// ErrInvalidState indicates an operation was attempted from a status
// that does not permit it.
var ErrInvalidState = errors.New("operation not permitted in current booking state")

// ErrCheckInTooEarly indicates a check-in attempt before the allowed
// window, which opens a fixed number of minutes ahead of the scheduled
// start.
var ErrCheckInTooEarly = errors.New("check-in window not open yet")

// ErrInvalidInput indicates malformed request data such as a
// non-"HH:mm" time string or an empty interval.
var ErrInvalidInput = errors.New("invalid input")
