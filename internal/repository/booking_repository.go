package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/courtsite/venue-slot-booking/internal/model"
)

// Resource discriminators for the unified slot-conflict query. Venue
// and coach bookings share one overlap check parameterized on the
// column holding the resource id.
const (
    ResourceVenue = "venue"
    ResourceCoach = "coach"
)

// activeStatusSet is inlined into conflict queries. Only these
// statuses occupy time; terminal bookings never block a slot.
const activeStatusSet = `('PENDING_PAYMENT','CONFIRMED','IN_PROGRESS')`

// BookingRepo provides data access to the bookings and
// booking_payments tables. Bookings are keyed by UUID strings so the
// id, and therefore the per-payee payment links embedding it, exist
// before the first INSERT. All timestamp fields are stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions spanning conflict checks and inserts.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// CountOverlappingTx counts active bookings on the given resource and
// date whose [start_time, end_time) interval collides with the
// candidate interval. The collision test is the three-case
// decomposition of half-open interval overlap:
//
//   1. the candidate start falls inside an existing booking,
//   2. the candidate end falls inside an existing booking,
//   3. the candidate fully contains an existing booking.
//
// Fixed-width "HH:mm" strings order correctly under lexicographic
// comparison, so the cases run directly in SQL. Matching rows are
// locked FOR UPDATE so that two concurrent initiations over the same
// slot serialize on the existing rows instead of both observing "no
// conflict". The caller must hold the transaction until its INSERT
// has committed.
func (r *BookingRepo) CountOverlappingTx(ctx context.Context, tx *sql.Tx, resource string, resourceID uint64, date, start, end string) (int, error) {
    return countOverlapping(ctx, tx, overlapQuery(resource, true), resourceID, date, start, end)
}

// CountOverlapping is the non-locking variant of CountOverlappingTx
// used by read-only availability checks, where a stale answer is
// acceptable and no insert follows.
func (r *BookingRepo) CountOverlapping(ctx context.Context, resource string, resourceID uint64, date, start, end string) (int, error) {
    return countOverlapping(ctx, r.db, overlapQuery(resource, false), resourceID, date, start, end)
}

func overlapQuery(resource string, forUpdate bool) string {
    col := "venue_id"
    if resource == ResourceCoach {
        col = "coach_id"
    }
    q := fmt.Sprintf(`SELECT COUNT(*) FROM bookings
        WHERE %s = ? AND booked_date = ? AND status IN %s
          AND ( (start_time <= ? AND end_time > ?)
             OR (start_time <  ? AND end_time >= ?)
             OR (start_time >= ? AND end_time <= ?) )`, col, activeStatusSet)
    if forUpdate {
        q += " FOR UPDATE"
    }
    return q
}

type rowQuerier interface {
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func countOverlapping(ctx context.Context, q rowQuerier, query string, resourceID uint64, date, start, end string) (int, error) {
    var n int
    err := q.QueryRowContext(ctx, query, resourceID, date,
        start, start, // candidate start inside existing
        end, end, // candidate end inside existing
        start, end, // candidate contains existing
    ).Scan(&n)
    if err != nil {
        return 0, err
    }
    return n, nil
}

// CreateTx inserts a booking and its split payment records within the
// provided transaction. The booking must carry a pre-generated UUID
// and at least one payment. The caller commits or rolls back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    const q = `INSERT INTO bookings
        (id, player_id, venue_id, coach_id, sport, booked_date, start_time, end_time,
         total_amount_cents, status, expires_at, participant_name, participant_user_id, participant_age)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := tx.ExecContext(ctx, q,
        b.ID, b.PlayerID, b.VenueID, b.CoachID, b.Sport, b.BookedDate, b.StartTime, b.EndTime,
        b.TotalAmountCents, b.Status, b.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
        b.ParticipantName, b.ParticipantUserID, b.ParticipantAge,
    )
    if err != nil {
        return err
    }
    if len(b.Payments) == 0 {
        return nil
    }
    insert := `INSERT INTO booking_payments (booking_id, payee_id, payee_role, amount_cents, status, payment_link) VALUES `
    args := make([]interface{}, 0, len(b.Payments)*6)
    for i, p := range b.Payments {
        if i > 0 {
            insert += ","
        }
        insert += "(?, ?, ?, ?, ?, ?)"
        args = append(args, b.ID, p.PayeeID, p.PayeeRole, p.AmountCents, p.Status, p.PaymentLink)
    }
    _, err = tx.ExecContext(ctx, insert, args...)
    return err
}

const bookingColumns = `id, player_id, venue_id, coach_id, sport,
    DATE_FORMAT(booked_date, '%Y-%m-%d'), start_time, end_time,
    total_amount_cents, status, expires_at, verification_token, qr_code,
    participant_name, participant_user_id, participant_age, created_at, updated_at`

// scanBooking binds the shared column list to a Booking. The scan
// argument is the Scan method of either an *sql.Row or *sql.Rows.
func scanBooking(scan func(dest ...interface{}) error) (*model.Booking, error) {
    var b model.Booking
    err := scan(
        &b.ID, &b.PlayerID, &b.VenueID, &b.CoachID, &b.Sport,
        &b.BookedDate, &b.StartTime, &b.EndTime,
        &b.TotalAmountCents, &b.Status, &b.ExpiresAt, &b.VerificationToken, &b.QRCode,
        &b.ParticipantName, &b.ParticipantUserID, &b.ParticipantAge, &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &b, nil
}

// GetByID loads a booking and its payments. It returns
// ErrBookingNotFound when no booking with the given id exists.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    payments, err := r.paymentsFor(ctx, r.db, id)
    if err != nil {
        return nil, err
    }
    b.Payments = payments
    return b, nil
}

// GetByIDTx is GetByID inside a transaction with the booking row
// locked FOR UPDATE, serializing payment updates, cancellation and
// lazy expiration against each other and against the sweeper.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
    b, err := scanBooking(tx.QueryRowContext(ctx, q, id).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    payments, err := r.paymentsFor(ctx, tx, id)
    if err != nil {
        return nil, err
    }
    b.Payments = payments
    return b, nil
}

// GetByToken loads a booking by its verification token, used during
// QR check-in. Returns ErrBookingNotFound for unknown tokens.
func (r *BookingRepo) GetByToken(ctx context.Context, token string) (*model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE verification_token = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, token).Scan)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrBookingNotFound
        }
        return nil, err
    }
    payments, err := r.paymentsFor(ctx, r.db, b.ID)
    if err != nil {
        return nil, err
    }
    b.Payments = payments
    return b, nil
}

// querier abstracts *sql.DB and *sql.Tx for reads shared between
// transactional and plain paths.
type querier interface {
    QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *BookingRepo) paymentsFor(ctx context.Context, q querier, bookingID string) ([]model.Payment, error) {
    const sel = `SELECT id, booking_id, payee_id, payee_role, amount_cents, status, payment_link, paid_at
                 FROM booking_payments WHERE booking_id = ? ORDER BY id`
    rows, err := q.QueryContext(ctx, sel, bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    payments := make([]model.Payment, 0, 2)
    for rows.Next() {
        var p model.Payment
        var link sql.NullString
        if err := rows.Scan(&p.ID, &p.BookingID, &p.PayeeID, &p.PayeeRole, &p.AmountCents, &p.Status, &link, &p.PaidAt); err != nil {
            return nil, err
        }
        if link.Valid {
            p.PaymentLink = link.String
        }
        payments = append(payments, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return payments, nil
}

// MarkPaymentPaidTx flips a single payee's payment from PENDING to
// PAID. The status predicate makes repeated marks for an already-paid
// payee no-ops: the second call affects zero rows and never disturbs
// paid_at. Returns the number of rows updated (0 or 1).
func (r *BookingRepo) MarkPaymentPaidTx(ctx context.Context, tx *sql.Tx, bookingID string, payeeID uint64, paidAt time.Time) (int64, error) {
    const q = `UPDATE booking_payments SET status = 'PAID', paid_at = ?
               WHERE booking_id = ? AND payee_id = ? AND status = 'PENDING'`
    res, err := tx.ExecContext(ctx, q, paidAt.UTC().Format("2006-01-02 15:04:05"), bookingID, payeeID)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// PaymentCountsTx returns the total and paid payment counts for a
// booking. The pair drives the all-paid gate: a booking confirms when
// total > 0 and paid == total; a zero-payment booking never confirms.
func (r *BookingRepo) PaymentCountsTx(ctx context.Context, tx *sql.Tx, bookingID string) (total, paid int, err error) {
    const q = `SELECT COUNT(*), COALESCE(SUM(status = 'PAID'), 0)
               FROM booking_payments WHERE booking_id = ?`
    err = tx.QueryRowContext(ctx, q, bookingID).Scan(&total, &paid)
    return total, paid, err
}

// ConfirmTx promotes a fully paid booking to CONFIRMED and attaches
// the verification token and QR payload. The update is conditional on
// PENDING_PAYMENT, so a booking already expired by the sweeper (or
// already confirmed) is left untouched and zero rows are reported.
// Token assignment therefore happens at most once per booking.
func (r *BookingRepo) ConfirmTx(ctx context.Context, tx *sql.Tx, id, token, qr string) (int64, error) {
    const q = `UPDATE bookings SET status = 'CONFIRMED', verification_token = ?, qr_code = ?
               WHERE id = ? AND status = 'PENDING_PAYMENT'`
    res, err := tx.ExecContext(ctx, q, token, qr, id)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ExpireTx lazily expires a single booking whose hold window has
// elapsed. Conditional on PENDING_PAYMENT for the same reason as
// ConfirmTx: whichever status write lands first wins and the loser is
// a no-op.
func (r *BookingRepo) ExpireTx(ctx context.Context, tx *sql.Tx, id string) (int64, error) {
    const q = `UPDATE bookings SET status = 'EXPIRED' WHERE id = ? AND status = 'PENDING_PAYMENT'`
    res, err := tx.ExecContext(ctx, q, id)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// UpdateStatus transitions a booking to a new status, guarded by the
// set of statuses the transition is legal from. Zero affected rows
// means the booking was not in a permitted state (or does not exist);
// the service layer disambiguates.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id, to string, from ...string) (int64, error) {
    q := `UPDATE bookings SET status = ? WHERE id = ? AND status IN (`
    args := []interface{}{to, id}
    for i, s := range from {
        if i > 0 {
            q += ","
        }
        q += "?"
        args = append(args, s)
    }
    q += ")"
    res, err := r.db.ExecContext(ctx, q, args...)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// ExpireDue is the sweeper's bulk transition: every PENDING_PAYMENT
// booking past its deadline flips to EXPIRED in one conditional
// UPDATE. A single statement (rather than read-then-write per row)
// cannot race a concurrent payment confirmation into a corrupting
// overwrite; rows confirmed in between simply no longer match.
func (r *BookingRepo) ExpireDue(ctx context.Context) (int64, error) {
    const q = `UPDATE bookings SET status = 'EXPIRED'
               WHERE status = 'PENDING_PAYMENT' AND expires_at <= UTC_TIMESTAMP()`
    res, err := r.db.ExecContext(ctx, q)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// BookedInterval is one occupied [Start, End) slice of a venue's day,
// returned by the availability projection.
type BookedInterval struct {
    Start string `json:"start_time"`
    End   string `json:"end_time"`
}

// IntervalsForDate lists the occupied intervals of a venue on a date,
// ordered by start time. Only active bookings count.
func (r *BookingRepo) IntervalsForDate(ctx context.Context, venueID uint64, date string) ([]BookedInterval, error) {
    q := `SELECT start_time, end_time FROM bookings
          WHERE venue_id = ? AND booked_date = ? AND status IN ` + activeStatusSet + `
          ORDER BY start_time`
    rows, err := r.db.QueryContext(ctx, q, venueID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    intervals := make([]BookedInterval, 0)
    for rows.Next() {
        var iv BookedInterval
        if err := rows.Scan(&iv.Start, &iv.End); err != nil {
            return nil, err
        }
        intervals = append(intervals, iv)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return intervals, nil
}

// ListByPlayer returns a page of the player's bookings, newest first,
// with payments populated.
func (r *BookingRepo) ListByPlayer(ctx context.Context, playerID uint64, limit, offset int) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings
          WHERE player_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
    return r.list(ctx, q, playerID, limit, offset)
}

// ListByVenue returns a page of a venue's bookings for its lister,
// newest first. When activeOnly is set, terminal bookings are
// filtered out.
func (r *BookingRepo) ListByVenue(ctx context.Context, venueID uint64, activeOnly bool, limit, offset int) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings WHERE venue_id = ?`
    if activeOnly {
        q += ` AND status IN ` + activeStatusSet
    }
    q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
    return r.list(ctx, q, venueID, limit, offset)
}

// ListByLister returns a page of bookings across every venue the
// lister owns, newest first. The subquery keeps the shared column list
// unambiguous. When activeOnly is set, terminal bookings are filtered
// out.
func (r *BookingRepo) ListByLister(ctx context.Context, listerID uint64, activeOnly bool, limit, offset int) ([]model.Booking, error) {
    q := `SELECT ` + bookingColumns + ` FROM bookings
          WHERE venue_id IN (SELECT id FROM venues WHERE owner_id = ?)`
    if activeOnly {
        q += ` AND status IN ` + activeStatusSet
    }
    q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
    return r.list(ctx, q, listerID, limit, offset)
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows.Scan)
        if err != nil {
            return nil, err
        }
        bookings = append(bookings, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    for i := range bookings {
        payments, err := r.paymentsFor(ctx, r.db, bookings[i].ID)
        if err != nil {
            return nil, err
        }
        bookings[i].Payments = payments
    }
    return bookings, nil
}
