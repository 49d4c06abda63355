// Package queue defines message payloads exchanged over the message broker
// along with the publisher and the background notification consumer.
package queue

// BookingConfirmedEvent is published when a booking becomes fully paid
// and transitions to CONFIRMED. It carries enough information for
// downstream consumers to notify the player and the payees without
// querying the primary database. Delivery is fire-and-forget; booking
// correctness never depends on it.
type BookingConfirmedEvent struct {
    BookingID        string  `json:"booking_id"`
    PlayerID         uint64  `json:"player_id"`
    VenueID          uint64  `json:"venue_id"`
    VenueName        string  `json:"venue_name"`
    CoachID          *uint64 `json:"coach_id,omitempty"`
    Sport            string  `json:"sport"`
    BookedDate       string  `json:"booked_date"`
    StartTime        string  `json:"start_time"`
    EndTime          string  `json:"end_time"`
    TotalAmountCents uint32  `json:"total_amount_cents"`
    VerificationURL  string  `json:"verification_url"`
    ConfirmedAt      string  `json:"confirmed_at"`
}
