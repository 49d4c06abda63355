package model

import "time"

// Payee roles and payment statuses for the split-payment records
// embedded in a booking.
const (
    PayeeVenueLister = "VENUE_LISTER"
    PayeeCoach       = "COACH"

    PaymentPending = "PENDING"
    PaymentPaid    = "PAID"
)

// Payment is one payee's share of a booking's total. A booking is
// confirmed if and only if every one of its payments is PAID.
//
// Fields:
//  ID          – booking_payments.id.
//  BookingID   – owning booking.
//  PayeeID     – user receiving this share (venue owner or coach).
//  PayeeRole   – VENUE_LISTER or COACH.
//  AmountCents – non-negative share in cents.
//  Status      – PENDING or PAID.
//  PaymentLink – mock checkout URL referencing booking, payee and amount.
//  PaidAt      – set when the payment is marked PAID.
type Payment struct {
    ID          uint64     `json:"id"`
    BookingID   string     `json:"booking_id"`
    PayeeID     uint64     `json:"payee_id"`
    PayeeRole   string     `json:"payee_role"`
    AmountCents uint32     `json:"amount_cents"`
    Status      string     `json:"status"`
    PaymentLink string     `json:"payment_link,omitempty"`
    PaidAt      *time.Time `json:"paid_at,omitempty"`
}
