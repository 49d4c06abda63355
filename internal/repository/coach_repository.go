package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/courtsite/venue-slot-booking/internal/model"
)

// CoachRepo provides read access to coaches and their weekly
// availability windows.
type CoachRepo struct {
    db *sql.DB
}

// NewCoachRepo returns a new CoachRepo bound to the given database.
func NewCoachRepo(db *sql.DB) *CoachRepo { return &CoachRepo{db: db} }

// GetByID loads a single coach. It returns ErrCoachNotFound when no
// coach with the given id exists.
func (r *CoachRepo) GetByID(ctx context.Context, id uint64) (*model.Coach, error) {
    const q = `SELECT id, user_id, name, hourly_rate_cents, service_mode, created_at, updated_at
               FROM coaches WHERE id = ?`
    var c model.Coach
    err := r.db.QueryRowContext(ctx, q, id).Scan(
        &c.ID, &c.UserID, &c.Name, &c.HourlyRateCents, &c.ServiceMode,
        &c.CreatedAt, &c.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrCoachNotFound
        }
        return nil, err
    }
    return &c, nil
}

// WindowsForWeekday returns the coach's declared availability windows
// for a single weekday (0 = Sunday, matching time.Weekday). A coach
// with no window on a weekday is simply unavailable that day; an empty
// slice and nil error are returned.
func (r *CoachRepo) WindowsForWeekday(ctx context.Context, coachID uint64, weekday int) ([]model.AvailabilityWindow, error) {
    const q = `SELECT id, coach_id, weekday, start_time, end_time
               FROM coach_availability
               WHERE coach_id = ? AND weekday = ?
               ORDER BY start_time`
    rows, err := r.db.QueryContext(ctx, q, coachID, weekday)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    windows := make([]model.AvailabilityWindow, 0)
    for rows.Next() {
        var w model.AvailabilityWindow
        if err := rows.Scan(&w.ID, &w.CoachID, &w.Weekday, &w.StartTime, &w.EndTime); err != nil {
            return nil, err
        }
        windows = append(windows, w)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return windows, nil
}
