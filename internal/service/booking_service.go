package service

import (
    "context"
    "database/sql"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/sirupsen/logrus"

    "github.com/courtsite/venue-slot-booking/internal/model"
    "github.com/courtsite/venue-slot-booking/internal/queue"
    "github.com/courtsite/venue-slot-booking/internal/repository"
    "github.com/courtsite/venue-slot-booking/internal/utils"
)

// Config carries the tunable parameters of the booking lifecycle.
type Config struct {
    HoldWindow    time.Duration // payment deadline after creation
    CheckInEarly  time.Duration // how early before start check-in opens
    VerifyBaseURL string        // public verify endpoint encoded into QR codes
    PayBaseURL    string        // base of the mock per-payee checkout links
    DayOpen       string        // "HH:mm" start of the bookable day window
    DayClose      string        // "HH:mm" end of the bookable day window
}

// BookingService orchestrates the booking state machine:
//
//   PENDING_PAYMENT -> CONFIRMED -> IN_PROGRESS -> COMPLETED
//                   \-> EXPIRED        \-> NO_SHOW
//   any non-terminal -> CANCELLED
//
// Every mutation is scoped to a single booking; conflict-checked
// creation and payment settlement run inside transactions owned here.
type BookingService struct {
    db       *sql.DB
    bookings *repository.BookingRepo
    venues   *repository.VenueRepo
    coaches  *repository.CoachRepo
    cfg      Config
    slots    slotLocks

    // now and publish are injectable for tests; defaults are
    // time.Now and the RabbitMQ publisher.
    now     func() time.Time
    publish func(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// NewBookingService constructs a BookingService. All repositories must
// be non-nil; publish may be nil to disable confirmation events.
func NewBookingService(bookings *repository.BookingRepo, venues *repository.VenueRepo, coaches *repository.CoachRepo, cfg Config) *BookingService {
    if bookings == nil || venues == nil || coaches == nil {
        panic("nil repository passed to NewBookingService")
    }
    if cfg.HoldWindow <= 0 {
        cfg.HoldWindow = 10 * time.Minute
    }
    if cfg.CheckInEarly <= 0 {
        cfg.CheckInEarly = 15 * time.Minute
    }
    if cfg.DayOpen == "" {
        cfg.DayOpen = "06:00"
    }
    if cfg.DayClose == "" {
        cfg.DayClose = "23:00"
    }
    return &BookingService{
        db:       bookings.DB(),
        bookings: bookings,
        venues:   venues,
        coaches:  coaches,
        cfg:      cfg,
        now:      func() time.Time { return time.Now().UTC() },
        publish:  queue.PublishBookingConfirmed,
    }
}

// InitiateInput is the request to create a booking.
type InitiateInput struct {
    PlayerID          uint64
    VenueID           uint64
    CoachID           *uint64
    Sport             string
    Date              string // "2006-01-02"
    StartTime         string // "HH:mm"
    EndTime           string // "HH:mm"
    ParticipantName   string
    ParticipantUserID *uint64
    ParticipantAge    *uint8
}

func (in InitiateInput) validate() error {
    if in.PlayerID == 0 || in.VenueID == 0 {
        return fmt.Errorf("%w: player and venue are required", ErrInvalidInput)
    }
    if _, err := time.Parse("2006-01-02", in.Date); err != nil {
        return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
    }
    if !utils.ValidClock(in.StartTime) || !utils.ValidClock(in.EndTime) {
        return fmt.Errorf("%w: times must be HH:mm", ErrInvalidInput)
    }
    if utils.TimeToMinutes(in.EndTime) <= utils.TimeToMinutes(in.StartTime) {
        return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
    }
    return nil
}

// Initiate creates a booking in PENDING_PAYMENT with per-payee payment
// links and a payment deadline. The venue slot, and the coach slot
// when a coach is requested, are conflict checked inside the same
// transaction as the insert; initiation over the same (resource, date)
// additionally serializes on an in-process lock so concurrent requests
// cannot slip past each other before either row exists.
func (s *BookingService) Initiate(ctx context.Context, in InitiateInput) (*model.Booking, error) {
    if err := in.validate(); err != nil {
        return nil, err
    }

    venue, err := s.venues.GetByID(ctx, in.VenueID)
    if err != nil {
        return nil, err
    }
    minutes := utils.TimeToMinutes(in.EndTime) - utils.TimeToMinutes(in.StartTime)
    venueAmount := PriceCents(venue.PricePerHourCents, minutes)

    var coach *model.Coach
    var coachAmount uint32
    if in.CoachID != nil {
        coach, err = s.coaches.GetByID(ctx, *in.CoachID)
        if err != nil {
            return nil, err
        }
        if coach.ServiceMode != model.ServiceModeOwnsVenue && !venue.AllowExternalCoaches {
            return nil, fmt.Errorf("%w: coach %d at venue %d", ErrCoachNotPermitted, coach.ID, venue.ID)
        }
        if err := s.checkCoachWindow(ctx, coach.ID, in.Date, in.StartTime, in.EndTime); err != nil {
            return nil, err
        }
        coachAmount = PriceCents(coach.HourlyRateCents, minutes)
    }

    keys := []string{slotKey(repository.ResourceVenue, in.VenueID, in.Date)}
    if coach != nil {
        keys = append(keys, slotKey(repository.ResourceCoach, coach.ID, in.Date))
    }
    unlock := s.slots.lock(keys...)
    defer unlock()

    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    n, err := s.bookings.CountOverlappingTx(ctx, tx, repository.ResourceVenue, in.VenueID, in.Date, in.StartTime, in.EndTime)
    if err != nil {
        return nil, err
    }
    if n > 0 {
        return nil, fmt.Errorf("%w: venue %d on %s %s-%s", ErrVenueSlotTaken, in.VenueID, in.Date, in.StartTime, in.EndTime)
    }
    if coach != nil {
        n, err = s.bookings.CountOverlappingTx(ctx, tx, repository.ResourceCoach, coach.ID, in.Date, in.StartTime, in.EndTime)
        if err != nil {
            return nil, err
        }
        if n > 0 {
            return nil, fmt.Errorf("%w: coach %d on %s %s-%s", ErrCoachSlotTaken, coach.ID, in.Date, in.StartTime, in.EndTime)
        }
    }

    // The id exists before the insert so every payment link already
    // references the booking's final id; no second write is needed.
    id := uuid.NewString()
    payeeCoach := uint64(0)
    if coach != nil {
        payeeCoach = coach.UserID
    }
    payments := SplitAmounts(venueAmount, venue.OwnerID, coachAmount, payeeCoach)
    for i := range payments {
        payments[i].BookingID = id
        payments[i].PaymentLink = PaymentLink(s.cfg.PayBaseURL, id, payments[i].PayeeID, payments[i].AmountCents)
    }

    now := s.now()
    booking := &model.Booking{
        ID:                id,
        PlayerID:          in.PlayerID,
        VenueID:           in.VenueID,
        CoachID:           in.CoachID,
        Sport:             in.Sport,
        BookedDate:        in.Date,
        StartTime:         in.StartTime,
        EndTime:           in.EndTime,
        TotalAmountCents:  venueAmount + coachAmount,
        Status:            model.StatusPendingPayment,
        ExpiresAt:         now.Add(s.cfg.HoldWindow),
        ParticipantName:   in.ParticipantName,
        ParticipantUserID: in.ParticipantUserID,
        ParticipantAge:    in.ParticipantAge,
        Payments:          payments,
    }
    if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return s.bookings.GetByID(ctx, id)
}

// checkCoachWindow verifies the candidate interval falls entirely
// within one of the coach's weekly windows for the booking's weekday.
// A coach with no declared window that day is unavailable.
func (s *BookingService) checkCoachWindow(ctx context.Context, coachID uint64, date, start, end string) error {
    day, err := time.Parse("2006-01-02", date)
    if err != nil {
        return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
    }
    windows, err := s.coaches.WindowsForWeekday(ctx, coachID, int(day.Weekday()))
    if err != nil {
        return err
    }
    cs, ce := utils.TimeToMinutes(start), utils.TimeToMinutes(end)
    for _, w := range windows {
        if cs >= utils.TimeToMinutes(w.StartTime) && ce <= utils.TimeToMinutes(w.EndTime) {
            return nil
        }
    }
    return fmt.Errorf("%w: coach %d on %s %s-%s", ErrCoachUnavailable, coachID, date, start, end)
}

// IsVenueSlotAvailable reports whether the candidate interval is free
// on the venue for the given date. It returns false for conflicts and
// an error only when the venue itself is missing.
func (s *BookingService) IsVenueSlotAvailable(ctx context.Context, venueID uint64, date, start, end string) (bool, error) {
    if _, err := s.venues.GetByID(ctx, venueID); err != nil {
        return false, err
    }
    n, err := s.bookings.CountOverlapping(ctx, repository.ResourceVenue, venueID, date, start, end)
    if err != nil {
        return false, err
    }
    return n == 0, nil
}

// IsCoachSlotAvailable reports whether the candidate interval is free
// on the coach for the given date, including containment in the
// coach's weekly availability window.
func (s *BookingService) IsCoachSlotAvailable(ctx context.Context, coachID uint64, date, start, end string) (bool, error) {
    if _, err := s.coaches.GetByID(ctx, coachID); err != nil {
        return false, err
    }
    if err := s.checkCoachWindow(ctx, coachID, date, start, end); err != nil {
        return false, nil
    }
    n, err := s.bookings.CountOverlapping(ctx, repository.ResourceCoach, coachID, date, start, end)
    if err != nil {
        return false, err
    }
    return n == 0, nil
}

// MarkPaymentPaid records one payee's payment. When that settles the
// last PENDING share, the booking transitions to CONFIRMED and the
// verification token and QR code are issued, exactly once. Marking an
// already-paid payee again is a safe no-op. A booking past its payment
// deadline is lazily expired here under the same rule the sweeper
// enforces proactively.
func (s *BookingService) MarkPaymentPaid(ctx context.Context, bookingID string, payeeID uint64) (*model.Booking, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    booking, err := s.bookings.GetByIDTx(ctx, tx, bookingID)
    if err != nil {
        return nil, err
    }

    var target *model.Payment
    for i := range booking.Payments {
        if booking.Payments[i].PayeeID == payeeID {
            target = &booking.Payments[i]
            break
        }
    }
    if target == nil {
        return nil, repository.ErrPayeeNotFound
    }

    switch booking.Status {
    case model.StatusExpired:
        return nil, ErrBookingExpired
    case model.StatusConfirmed, model.StatusInProgress:
        // Duplicate callback after confirmation: idempotent no-op,
        // the token must not rotate.
        if target.Status == model.PaymentPaid {
            return booking, nil
        }
        return nil, ErrInvalidState
    case model.StatusPendingPayment:
        // fall through
    default:
        return nil, ErrInvalidState
    }

    now := s.now()
    if now.After(booking.ExpiresAt) {
        if _, err := s.bookings.ExpireTx(ctx, tx, bookingID); err != nil {
            return nil, err
        }
        if err := tx.Commit(); err != nil {
            return nil, err
        }
        committed = true
        return nil, ErrBookingExpired
    }

    affected, err := s.bookings.MarkPaymentPaidTx(ctx, tx, bookingID, payeeID, now)
    if err != nil {
        return nil, err
    }
    if affected == 0 {
        // Already PAID; leave paid_at untouched and report current state.
        if err := tx.Commit(); err != nil {
            return nil, err
        }
        committed = true
        return booking, nil
    }

    target.Status = model.PaymentPaid

    // The row count is authoritative; the in-memory view, loaded under
    // the same row lock, must agree before confirmation is issued.
    total, paid, err := s.bookings.PaymentCountsTx(ctx, tx, bookingID)
    if err != nil {
        return nil, err
    }
    confirmed := false
    var verifyURL string
    if total > 0 && paid == total && AllPaid(booking.Payments) {
        token := utils.NewVerificationToken()
        verifyURL = utils.BuildVerificationURL(s.cfg.VerifyBaseURL, token)
        qr, err := utils.RenderQRCode(verifyURL)
        if err != nil {
            return nil, err
        }
        n, err := s.bookings.ConfirmTx(ctx, tx, bookingID, token, qr)
        if err != nil {
            return nil, err
        }
        confirmed = n == 1
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true

    updated, err := s.bookings.GetByID(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if confirmed {
        s.publishConfirmed(ctx, updated, verifyURL)
    }
    return updated, nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, b *model.Booking, verifyURL string) {
    if s.publish == nil {
        return
    }
    venueName := ""
    if v, err := s.venues.GetByID(ctx, b.VenueID); err == nil {
        venueName = v.Name
    }
    ev := queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        PlayerID:         b.PlayerID,
        VenueID:          b.VenueID,
        VenueName:        venueName,
        CoachID:          b.CoachID,
        Sport:            b.Sport,
        BookedDate:       b.BookedDate,
        StartTime:        b.StartTime,
        EndTime:          b.EndTime,
        TotalAmountCents: b.TotalAmountCents,
        VerificationURL:  verifyURL,
        ConfirmedAt:      s.now().Format(time.RFC3339),
    }
    if err := s.publish(ctx, ev); err != nil {
        logrus.WithError(err).WithField("booking_id", b.ID).Warn("confirmation event publish failed")
    }
}

// Cancel transitions a booking to CANCELLED from any non-terminal
// state. Cancelling an already-terminal booking is rejected.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*model.Booking, error) {
    booking, err := s.bookings.GetByID(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if model.IsTerminal(booking.Status) {
        return nil, ErrInvalidState
    }
    affected, err := s.bookings.UpdateStatus(ctx, bookingID, model.StatusCancelled, model.ActiveStatuses...)
    if err != nil {
        return nil, err
    }
    if affected == 0 {
        // Lost a race against another transition.
        return nil, ErrInvalidState
    }
    return s.bookings.GetByID(ctx, bookingID)
}

// CheckIn moves a CONFIRMED booking to IN_PROGRESS given its
// verification token. Check-in opens a fixed window before the
// scheduled start and has no upper bound.
func (s *BookingService) CheckIn(ctx context.Context, token string) (*model.Booking, error) {
    booking, err := s.bookings.GetByToken(ctx, token)
    if err != nil {
        return nil, err
    }
    if booking.Status != model.StatusConfirmed {
        return nil, ErrInvalidState
    }
    start, err := time.Parse("2006-01-02 15:04", booking.BookedDate+" "+booking.StartTime)
    if err != nil {
        return nil, fmt.Errorf("%w: booking has malformed schedule", ErrInvalidInput)
    }
    if s.now().Before(start.Add(-s.cfg.CheckInEarly)) {
        return nil, ErrCheckInTooEarly
    }
    affected, err := s.bookings.UpdateStatus(ctx, booking.ID, model.StatusInProgress, model.StatusConfirmed)
    if err != nil {
        return nil, err
    }
    if affected == 0 {
        return nil, ErrInvalidState
    }
    return s.bookings.GetByID(ctx, booking.ID)
}

// Complete transitions an IN_PROGRESS booking to COMPLETED.
func (s *BookingService) Complete(ctx context.Context, bookingID string) (*model.Booking, error) {
    return s.transition(ctx, bookingID, model.StatusCompleted, model.StatusInProgress)
}

// MarkNoShow transitions a CONFIRMED or IN_PROGRESS booking to NO_SHOW.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingID string) (*model.Booking, error) {
    return s.transition(ctx, bookingID, model.StatusNoShow, model.StatusConfirmed, model.StatusInProgress)
}

func (s *BookingService) transition(ctx context.Context, bookingID, to string, from ...string) (*model.Booking, error) {
    if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
        return nil, err
    }
    affected, err := s.bookings.UpdateStatus(ctx, bookingID, to, from...)
    if err != nil {
        return nil, err
    }
    if affected == 0 {
        return nil, ErrInvalidState
    }
    return s.bookings.GetByID(ctx, bookingID)
}

// Availability is the venue's day view: the occupied intervals plus
// the free hourly slots derived from the daily open window.
type Availability struct {
    VenueID uint64                       `json:"venue_id"`
    Date    string                       `json:"date"`
    Booked  []repository.BookedInterval  `json:"booked"`
    Free    []repository.BookedInterval  `json:"free_slots"`
}

// GetAvailability lists a venue's booked intervals on a date and
// derives the free hourly slots between DayOpen and DayClose.
func (s *BookingService) GetAvailability(ctx context.Context, venueID uint64, date string) (*Availability, error) {
    if _, err := time.Parse("2006-01-02", date); err != nil {
        return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
    }
    if _, err := s.venues.GetByID(ctx, venueID); err != nil {
        return nil, err
    }
    booked, err := s.bookings.IntervalsForDate(ctx, venueID, date)
    if err != nil {
        return nil, err
    }
    dayOpen := utils.TimeToMinutes(s.cfg.DayOpen)
    dayClose := utils.TimeToMinutes(s.cfg.DayClose)
    free := make([]repository.BookedInterval, 0)
    for m := dayOpen; m+60 <= dayClose; m += 60 {
        slotStart, slotEnd := utils.MinutesToTime(m), utils.MinutesToTime(m+60)
        taken := false
        for _, iv := range booked {
            if utils.ClockOverlaps(slotStart, slotEnd, iv.Start, iv.End) {
                taken = true
                break
            }
        }
        if !taken {
            free = append(free, repository.BookedInterval{Start: slotStart, End: slotEnd})
        }
    }
    return &Availability{VenueID: venueID, Date: date, Booked: booked, Free: free}, nil
}

// ListForPlayer returns a page of the player's bookings.
func (s *BookingService) ListForPlayer(ctx context.Context, playerID uint64, page, size int) ([]model.Booking, error) {
    limit, offset := pageBounds(page, size)
    return s.bookings.ListByPlayer(ctx, playerID, limit, offset)
}

// ListForVenue returns a page of a venue's bookings for its lister,
// optionally restricted to active statuses.
func (s *BookingService) ListForVenue(ctx context.Context, venueID uint64, activeOnly bool, page, size int) ([]model.Booking, error) {
    limit, offset := pageBounds(page, size)
    return s.bookings.ListByVenue(ctx, venueID, activeOnly, limit, offset)
}

// ListForLister returns a page of bookings across every venue the
// lister owns, optionally restricted to active statuses.
func (s *BookingService) ListForLister(ctx context.Context, listerID uint64, activeOnly bool, page, size int) ([]model.Booking, error) {
    limit, offset := pageBounds(page, size)
    return s.bookings.ListByLister(ctx, listerID, activeOnly, limit, offset)
}

func pageBounds(page, size int) (limit, offset int) {
    if size <= 0 {
        size = 20
    }
    if size > 100 {
        size = 100
    }
    if page < 0 {
        page = 0
    }
    return size, page * size
}
