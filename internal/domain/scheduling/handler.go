package scheduling

import (
	"errors"
	"net/http"
	"time"

	"github.com/agendia/agendia/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes the availability engine over HTTP. Staff routes live
// under the authenticated API group; the public group serves the patient
// self-booking page and the mobile app without authentication.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes attaches staff routes to api and patient-facing routes to
// public.
func (h *Handler) RegisterRoutes(api, public *echo.Group) {
	api.GET("/professionals/:id/agenda", h.GetAgenda)
	api.GET("/professionals/:id/bookings", h.ListBookings)
	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings/:id", h.GetBooking)
	api.PATCH("/bookings/:id/status", h.UpdateBookingStatus)

	public.GET("/booking/:professionalID/slots", h.GetPublicSlots)
	public.POST("/booking", h.CreatePublicBooking)
	public.POST("/booking/:id/cancel", h.CancelPublicBooking)
}

// GetAgenda returns the annotated slot sequence for one professional and
// date, occupied slots included.
func (h *Handler) GetAgenda(c echo.Context) error {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return err
	}

	slots, err := h.svc.GetDaySlots(c.Request().Context(), professionalID, date)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"professional_id": professionalID,
		"date":            date.Format("2006-01-02"),
		"slots":           slots,
	})
}

func (h *Handler) ListBookings(c echo.Context) error {
	professionalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	from, err := parseDate(c.QueryParam("from"))
	if err != nil {
		return err
	}
	to := from
	if v := c.QueryParam("to"); v != "" {
		if to, err = parseDate(v); err != nil {
			return err
		}
	}
	params := pagination.FromContext(c)

	list, total, err := h.svc.ListBookings(c.Request().Context(), professionalID, from, to, params.Limit, params.Offset)
	if err != nil {
		return httpError(err)
	}
	if list == nil {
		list = []*Booking{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, params.Limit, params.Offset))
}

type createBookingBody struct {
	ProfessionalID string  `json:"professional_id"`
	PatientName    string  `json:"patient_name"`
	PatientPhone   string  `json:"patient_phone"`
	Date           string  `json:"date"`
	Start          string  `json:"start_time"`
	End            string  `json:"end_time"`
	Source         string  `json:"source,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (b createBookingBody) toRequest(source string) (BookingRequest, error) {
	var req BookingRequest
	professionalID, err := uuid.Parse(b.ProfessionalID)
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid professional_id")
	}
	date, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	start, err := ParseTimeOfDay(b.Start)
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	end, err := ParseTimeOfDay(b.End)
	if err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return BookingRequest{
		ProfessionalID: professionalID,
		PatientName:    b.PatientName,
		PatientPhone:   b.PatientPhone,
		Date:           date,
		Start:          start,
		End:            end,
		Source:         source,
		Notes:          b.Notes,
	}, nil
}

func (h *Handler) CreateBooking(c echo.Context) error {
	return h.createBooking(c, SourceDashboard)
}

// CreatePublicBooking is the unauthenticated booking endpoint behind the
// public page and the mobile app. The app identifies itself through the
// body's source field; anything else is recorded as the public page.
func (h *Handler) CreatePublicBooking(c echo.Context) error {
	return h.createBooking(c, SourcePublic)
}

func (h *Handler) createBooking(c echo.Context, source string) error {
	var body createBookingBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if source == SourcePublic && body.Source == SourceMobile {
		source = SourceMobile
	}
	req, err := body.toRequest(source)
	if err != nil {
		return err
	}

	booking, err := h.svc.BookSlot(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *Handler) GetBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking ID")
	}
	booking, err := h.svc.GetBooking(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *Handler) UpdateBookingStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking ID")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.UpdateBookingStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

// GetPublicSlots mirrors GetAgenda for the public page, but hides booking
// references: patients see which slots are taken, not by whom.
func (h *Handler) GetPublicSlots(c echo.Context) error {
	professionalID, err := uuid.Parse(c.Param("professionalID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return err
	}

	slots, err := h.svc.GetDaySlots(c.Request().Context(), professionalID, date)
	if err != nil {
		return httpError(err)
	}
	for i := range slots {
		slots[i].BookingID = nil
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"professional_id": professionalID,
		"date":            date.Format("2006-01-02"),
		"slots":           slots,
	})
}

func (h *Handler) CancelPublicBooking(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking ID")
	}
	var body struct {
		Phone string `json:"patient_phone"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), id, body.Phone)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, booking)
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "date query parameter is required")
	}
	date, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
	}
	return date, nil
}

// httpError maps service errors to HTTP statuses. Anything unrecognized is
// treated as a store failure.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidBooking):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrProfessionalNotFound), errors.Is(err, ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrOutsideSchedule):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	default:
		return echo.NewHTTPError(http.StatusServiceUnavailable, "scheduling store unavailable")
	}
}
