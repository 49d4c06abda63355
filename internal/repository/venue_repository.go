package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/courtsite/venue-slot-booking/internal/model"
)

// VenueRepo provides read access to venues. The booking core never
// mutates venues; onboarding and listing management belong to a
// separate service and are out of scope here.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// GetByID loads a single venue. It returns ErrVenueNotFound when no
// venue with the given id exists.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
    const q = `SELECT id, owner_id, name, price_per_hour_cents, allow_external_coaches, created_at, updated_at
               FROM venues WHERE id = ?`
    var v model.Venue
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &v.ID, &v.OwnerID, &v.Name, &v.PricePerHourCents, &v.AllowExternalCoaches,
        &v.CreatedAt, &v.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrVenueNotFound
        }
        return nil, err
    }
    return &v, nil
}
