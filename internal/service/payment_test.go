package service

import (
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/courtsite/venue-slot-booking/internal/model"
)

func TestPriceCents_FractionalHours(t *testing.T) {
    // 1.5h at 1000.00/hr = 1500.00
    assert.Equal(t, uint32(150000), PriceCents(100000, 90))
    // 0.5h at 1000.00/hr = 500.00
    assert.Equal(t, uint32(50000), PriceCents(100000, 30))
    // 0.75h at 800.00/hr = 600.00
    assert.Equal(t, uint32(60000), PriceCents(80000, 45))
    // full hour
    assert.Equal(t, uint32(80000), PriceCents(80000, 60))
}

func TestPriceCents_RoundsToNearestCent(t *testing.T) {
    // 999 cents/hr for 50 minutes = 832.5 -> 833 (half-up)
    assert.Equal(t, uint32(833), PriceCents(999, 50))
    // zero or negative duration prices at zero
    assert.Equal(t, uint32(0), PriceCents(100000, 0))
    assert.Equal(t, uint32(0), PriceCents(100000, -30))
}

func TestSplitAmounts_VenueOnly(t *testing.T) {
    payments := SplitAmounts(80000, 7, 0, 0)
    assert.Len(t, payments, 1)
    assert.Equal(t, uint64(7), payments[0].PayeeID)
    assert.Equal(t, model.PayeeVenueLister, payments[0].PayeeRole)
    assert.Equal(t, uint32(80000), payments[0].AmountCents)
    assert.Equal(t, model.PaymentPending, payments[0].Status)
    assert.Nil(t, payments[0].PaidAt)
}

func TestSplitAmounts_WithCoach(t *testing.T) {
    payments := SplitAmounts(80000, 7, 40000, 9)
    assert.Len(t, payments, 2)
    assert.Equal(t, model.PayeeCoach, payments[1].PayeeRole)
    assert.Equal(t, uint64(9), payments[1].PayeeID)
    assert.Equal(t, uint32(40000), payments[1].AmountCents)
    assert.Equal(t, model.PaymentPending, payments[1].Status)
}

func TestSplitAmounts_NoCoachShareWithoutPayee(t *testing.T) {
    // A coach amount with no payee id must not emit a second record,
    // and vice versa.
    assert.Len(t, SplitAmounts(80000, 7, 40000, 0), 1)
    assert.Len(t, SplitAmounts(80000, 7, 0, 9), 1)
}

func TestAllPaid(t *testing.T) {
    paid := model.Payment{Status: model.PaymentPaid}
    pending := model.Payment{Status: model.PaymentPending}

    assert.False(t, AllPaid(nil), "empty list must never count as fully paid")
    assert.False(t, AllPaid([]model.Payment{}))
    assert.False(t, AllPaid([]model.Payment{paid, pending}))
    assert.False(t, AllPaid([]model.Payment{pending}))
    assert.True(t, AllPaid([]model.Payment{paid}))
    assert.True(t, AllPaid([]model.Payment{paid, paid}))
}

func TestPaymentLink(t *testing.T) {
    link := PaymentLink("https://pay.example.com", "b-42", 7, 80000)
    assert.Equal(t, "https://pay.example.com/checkout?booking_id=b-42&payee_id=7&amount_cents=80000", link)
}
