package model

import "time"

// Venue is the bookable resource. The booking core only consumes the
// pricing and coach-policy fields; listing and onboarding live in a
// separate service.
//
// Fields:
//  ID                   – venues.id.
//  OwnerID              – user who lists the venue and receives the
//                         venue share of every booking.
//  Name                 – display name.
//  PricePerHourCents    – hourly rate in cents.
//  AllowExternalCoaches – whether freelance coaches may be booked here.
type Venue struct {
    ID                   uint64    `json:"id"`
    OwnerID              uint64    `json:"owner_id"`
    Name                 string    `json:"name"`
    PricePerHourCents    uint32    `json:"price_per_hour_cents"`
    AllowExternalCoaches bool      `json:"allow_external_coaches"`
    CreatedAt            time.Time `json:"created_at"`
    UpdatedAt            time.Time `json:"updated_at"`
}
