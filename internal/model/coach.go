package model

import "time"

// Coach service modes. A coach that owns its venue bypasses the
// venue's external-coach policy check.
const (
    ServiceModeOwnsVenue = "OWNS_VENUE"
    ServiceModeFreelance = "FREELANCE"
)

// Coach is the optional second resource on a booking. A coach may only
// be booked inside one of its declared weekly availability windows.
//
// Fields:
//  ID              – coaches.id.
//  UserID          – user account receiving the coach share.
//  Name            – display name.
//  HourlyRateCents – rate in cents.
//  ServiceMode     – OWNS_VENUE or FREELANCE.
type Coach struct {
    ID              uint64    `json:"id"`
    UserID          uint64    `json:"user_id"`
    Name            string    `json:"name"`
    HourlyRateCents uint32    `json:"hourly_rate_cents"`
    ServiceMode     string    `json:"service_mode"`
    CreatedAt       time.Time `json:"created_at"`
    UpdatedAt       time.Time `json:"updated_at"`
}

// AvailabilityWindow is one weekly recurring window during which a
// coach accepts bookings. Weekday follows time.Weekday numbering
// (0 = Sunday). Times are "HH:mm" strings, half-open [Start, End).
type AvailabilityWindow struct {
    ID        uint64 `json:"id"`
    CoachID   uint64 `json:"coach_id"`
    Weekday   int    `json:"weekday"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
}
