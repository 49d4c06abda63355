package model

import "time"

// Booking statuses. A booking's interval blocks other bookings on the
// same venue (and coach) only while the status is one of the active
// set; terminal statuses never block and never transition again.
const (
    StatusPendingPayment = "PENDING_PAYMENT"
    StatusConfirmed      = "CONFIRMED"
    StatusInProgress     = "IN_PROGRESS"
    StatusCompleted      = "COMPLETED"
    StatusCancelled      = "CANCELLED"
    StatusExpired        = "EXPIRED"
    StatusNoShow         = "NO_SHOW"
)

// ActiveStatuses are the statuses whose interval still occupies its slot.
// Conflict queries must be restricted to exactly this set.
var ActiveStatuses = []string{StatusPendingPayment, StatusConfirmed, StatusInProgress}

// IsTerminal reports whether a status permits no further transitions.
func IsTerminal(status string) bool {
    switch status {
    case StatusCompleted, StatusCancelled, StatusExpired, StatusNoShow:
        return true
    }
    return false
}

// Booking records a player's reservation of a venue slot, optionally
// together with a coach. Start and end times are "HH:mm" 24-hour
// strings interpreted as a half-open interval [StartTime, EndTime) on
// BookedDate. All timestamps are UTC.
//
// Fields:
//  ID                – UUID primary key (bookings.id).
//  PlayerID          – user who made the booking.
//  VenueID           – venue being booked.
//  CoachID           – optional coach booked alongside the venue.
//  Sport             – sport label, informational.
//  BookedDate        – calendar date in "2006-01-02" form.
//  StartTime/EndTime – "HH:mm" interval bounds.
//  TotalAmountCents  – sum of all payment amounts at creation time.
//  Status            – lifecycle state, see status constants.
//  ExpiresAt         – payment deadline; meaningful only while
//                      PENDING_PAYMENT.
//  VerificationToken – opaque token issued exactly once on confirmation.
//  QRCode            – PNG data URI encoding the verification URL.
//  Payments          – per-payee split payment records.
type Booking struct {
    ID                string     `json:"id"`
    PlayerID          uint64     `json:"player_id"`
    VenueID           uint64     `json:"venue_id"`
    CoachID           *uint64    `json:"coach_id,omitempty"`
    Sport             string     `json:"sport"`
    BookedDate        string     `json:"booked_date"`
    StartTime         string     `json:"start_time"`
    EndTime           string     `json:"end_time"`
    TotalAmountCents  uint32     `json:"total_amount_cents"`
    Status            string     `json:"status"`
    ExpiresAt         time.Time  `json:"expires_at"`
    VerificationToken *string    `json:"verification_token,omitempty"`
    QRCode            *string    `json:"qr_code,omitempty"`
    ParticipantName   string     `json:"participant_name,omitempty"`
    ParticipantUserID *uint64    `json:"participant_user_id,omitempty"`
    ParticipantAge    *uint8     `json:"participant_age,omitempty"`
    Payments          []Payment  `json:"payments"`
    CreatedAt         time.Time  `json:"created_at"`
    UpdatedAt         time.Time  `json:"updated_at"`
}
