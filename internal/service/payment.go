package service

import (
    "fmt"

    "github.com/courtsite/venue-slot-booking/internal/model"
)

// PriceCents computes one payee's share for a booking of the given
// duration: duration in hours times the hourly rate, rounded half-up
// to the nearest cent. Fractional hours are supported (90 minutes at
// 1000.00/hr is 1500.00). The same rounding rule applies to venue and
// coach shares.
func PriceCents(rateCents uint32, minutes int) uint32 {
    if minutes <= 0 {
        return 0
    }
    return uint32((uint64(rateCents)*uint64(minutes) + 30) / 60)
}

// SplitAmounts builds the per-payee payment records for a booking.
// The venue owner's share is always emitted; a coach share is emitted
// only when both a positive amount and a payee id are supplied. All
// records start PENDING with no paid-at timestamp.
func SplitAmounts(venueAmountCents uint32, venueOwnerID uint64, coachAmountCents uint32, coachUserID uint64) []model.Payment {
    payments := []model.Payment{{
        PayeeID:     venueOwnerID,
        PayeeRole:   model.PayeeVenueLister,
        AmountCents: venueAmountCents,
        Status:      model.PaymentPending,
    }}
    if coachAmountCents > 0 && coachUserID != 0 {
        payments = append(payments, model.Payment{
            PayeeID:     coachUserID,
            PayeeRole:   model.PayeeCoach,
            AmountCents: coachAmountCents,
            Status:      model.PaymentPending,
        })
    }
    return payments
}

// AllPaid reports whether every payment in the list is PAID. An empty
// list is never considered fully paid; a booking with zero payments
// must not auto-confirm.
func AllPaid(payments []model.Payment) bool {
    if len(payments) == 0 {
        return false
    }
    for _, p := range payments {
        if p.Status != model.PaymentPaid {
            return false
        }
    }
    return true
}

// PaymentLink builds the deterministic mock checkout URL for one
// payee's share. The URL embeds the booking's final id, so booking ids
// are generated before the first persistence.
func PaymentLink(baseURL, bookingID string, payeeID uint64, amountCents uint32) string {
    return fmt.Sprintf("%s/checkout?booking_id=%s&payee_id=%d&amount_cents=%d", baseURL, bookingID, payeeID, amountCents)
}
