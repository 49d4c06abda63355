package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/courtsite/venue-slot-booking/internal/repository"
    "github.com/courtsite/venue-slot-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP. All methods
// assume JWT authentication has run; the business rules live entirely
// in the service layer and handlers only shuttle requests, map errors
// to status codes and shape responses.
type BookingHandler struct {
    Svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler. The service must be non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

// getUserID extracts the user_id claim from echo.Context as uint64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// bookingError maps service and repository sentinels onto HTTP
// responses. Conflict and validation failures carry the detail the
// service wrapped into the error so callers can correct the request.
func bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrVenueNotFound),
        errors.Is(err, repository.ErrCoachNotFound),
        errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, repository.ErrPayeeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrVenueSlotTaken),
        errors.Is(err, service.ErrCoachSlotTaken),
        errors.Is(err, service.ErrCoachUnavailable),
        errors.Is(err, service.ErrCoachNotPermitted):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrBookingExpired):
        return c.JSON(http.StatusGone, echo.Map{"error": "booking expired, please start a new booking"})
    case errors.Is(err, service.ErrInvalidState), errors.Is(err, service.ErrCheckInTooEarly):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrInvalidInput):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Initiate handles POST /v1/bookings. The request body supplies the
// venue, optional coach, date and "HH:mm" interval; the response
// carries the created booking with its per-payee payment links and the
// payment deadline.
func (h *BookingHandler) Initiate(c echo.Context) error {
    playerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        VenueID           uint64  `json:"venue_id"`
        CoachID           *uint64 `json:"coach_id"`
        Sport             string  `json:"sport"`
        Date              string  `json:"date"`
        StartTime         string  `json:"start_time"`
        EndTime           string  `json:"end_time"`
        ParticipantName   string  `json:"participant_name"`
        ParticipantUserID *uint64 `json:"participant_user_id"`
        ParticipantAge    *uint8  `json:"participant_age"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    booking, err := h.Svc.Initiate(c.Request().Context(), service.InitiateInput{
        PlayerID:          playerID,
        VenueID:           body.VenueID,
        CoachID:           body.CoachID,
        Sport:             body.Sport,
        Date:              body.Date,
        StartTime:         body.StartTime,
        EndTime:           body.EndTime,
        ParticipantName:   body.ParticipantName,
        ParticipantUserID: body.ParticipantUserID,
        ParticipantAge:    body.ParticipantAge,
    })
    if err != nil {
        return bookingError(c, err)
    }
    links := make([]echo.Map, 0, len(booking.Payments))
    for _, p := range booking.Payments {
        links = append(links, echo.Map{
            "payee_id":     p.PayeeID,
            "payee_role":   p.PayeeRole,
            "amount_cents": p.AmountCents,
            "payment_link": p.PaymentLink,
        })
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "booking":       booking,
        "payment_links": links,
    })
}

// MarkPaid handles POST /v1/bookings/:id/payments/:payee/paid. It
// records one payee's payment; when the last share settles, the
// returned booking is CONFIRMED and carries the QR code.
func (h *BookingHandler) MarkPaid(c echo.Context) error {
    payeeID, err := strconv.ParseUint(c.Param("payee"), 10, 64)
    if err != nil || payeeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payee id"})
    }
    booking, err := h.Svc.MarkPaymentPaid(c.Request().Context(), c.Param("id"), payeeID)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// Cancel handles DELETE /v1/bookings/:id. Terminal bookings cannot be
// cancelled again.
func (h *BookingHandler) Cancel(c echo.Context) error {
    booking, err := h.Svc.Cancel(c.Request().Context(), c.Param("id"))
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// CheckIn handles POST /v1/check-in. The body carries the verification
// token scanned from the booking's QR code.
func (h *BookingHandler) CheckIn(c echo.Context) error {
    var body struct {
        Token string `json:"token"`
    }
    if err := c.Bind(&body); err != nil || body.Token == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
    }
    booking, err := h.Svc.CheckIn(c.Request().Context(), body.Token)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// Complete handles POST /v1/bookings/:id/complete.
func (h *BookingHandler) Complete(c echo.Context) error {
    booking, err := h.Svc.Complete(c.Request().Context(), c.Param("id"))
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// NoShow handles POST /v1/bookings/:id/no-show.
func (h *BookingHandler) NoShow(c echo.Context) error {
    booking, err := h.Svc.MarkNoShow(c.Request().Context(), c.Param("id"))
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": booking})
}

// ListMine handles GET /v1/bookings/mine with optional page/size query
// parameters.
func (h *BookingHandler) ListMine(c echo.Context) error {
    playerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, size := pagination(c)
    bookings, err := h.Svc.ListForPlayer(c.Request().Context(), playerID, page, size)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// ListForVenue handles GET /v1/venues/:id/bookings for listers. The
// optional ?active=true filter restricts the result to bookings whose
// interval still occupies time.
func (h *BookingHandler) ListForVenue(c echo.Context) error {
    venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || venueID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    page, size := pagination(c)
    activeOnly := c.QueryParam("active") == "true"
    bookings, err := h.Svc.ListForVenue(c.Request().Context(), venueID, activeOnly, page, size)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// ListForLister handles GET /v1/listers/me/bookings: every booking
// across every venue the authenticated lister owns, with the same
// ?active=true filter and pagination as the per-venue projection.
func (h *BookingHandler) ListForLister(c echo.Context) error {
    listerID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    page, size := pagination(c)
    activeOnly := c.QueryParam("active") == "true"
    bookings, err := h.Svc.ListForLister(c.Request().Context(), listerID, activeOnly, page, size)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": bookings})
}

// Availability handles GET /v1/venues/:id/availability?date=YYYY-MM-DD.
// It is public: players browse free slots before authenticating.
func (h *BookingHandler) Availability(c echo.Context) error {
    venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || venueID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date is required"})
    }
    availability, err := h.Svc.GetAvailability(c.Request().Context(), venueID, date)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, availability)
}

func pagination(c echo.Context) (page, size int) {
    page, _ = strconv.Atoi(c.QueryParam("page"))
    size, _ = strconv.Atoi(c.QueryParam("size"))
    return page, size
}
