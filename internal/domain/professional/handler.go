package professional

import (
	"errors"
	"net/http"
	"time"

	"github.com/agendia/agendia/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Handler exposes professional and schedule configuration management. All
// routes are staff-only; the public booking surface never touches these.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/professionals", h.Create)
	api.GET("/professionals", h.List)
	api.GET("/professionals/:id", h.GetByID)
	api.PUT("/professionals/:id", h.Update)
	api.DELETE("/professionals/:id", h.Deactivate)

	api.GET("/professionals/:id/weekly-slots", h.ListWeeklySlots)
	api.PUT("/professionals/:id/weekly-slots", h.ReplaceWeeklySlots)

	api.GET("/professionals/:id/schedule-blocks", h.ListBlocks)
	api.POST("/professionals/:id/schedule-blocks", h.CreateBlock)
	api.PUT("/schedule-blocks/:id", h.UpdateBlock)
	api.DELETE("/schedule-blocks/:id", h.DeleteBlock)
}

func (h *Handler) Create(c echo.Context) error {
	var p Professional
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, &p)
}

func (h *Handler) List(c echo.Context) error {
	params := pagination.FromContext(c)
	activeOnly := c.QueryParam("active") == "true"

	list, total, err := h.svc.List(c.Request().Context(), activeOnly, params.Limit, params.Offset)
	if err != nil {
		return httpError(err)
	}
	if list == nil {
		list = []*Professional{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, params.Limit, params.Offset))
}

func (h *Handler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	p, err := h.svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	var p Professional
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, &p)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListWeeklySlots(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	slots, err := h.svc.ListWeeklySlots(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if slots == nil {
		slots = []*WeeklySlot{}
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) ReplaceWeeklySlots(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	var slots []*WeeklySlot
	if err := c.Bind(&slots); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.ReplaceWeeklySlots(c.Request().Context(), id, slots); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, slots)
}

func (h *Handler) ListBlocks(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	var on *time.Time
	if v := c.QueryParam("on"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		on = &d
	}
	blocks, err := h.svc.ListBlocks(c.Request().Context(), id, on)
	if err != nil {
		return httpError(err)
	}
	if blocks == nil {
		blocks = []*ScheduleBlock{}
	}
	return c.JSON(http.StatusOK, blocks)
}

func (h *Handler) CreateBlock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid professional ID")
	}
	var b ScheduleBlock
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	b.ProfessionalID = id
	if err := h.svc.CreateBlock(c.Request().Context(), &b); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, &b)
}

func (h *Handler) UpdateBlock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule block ID")
	}
	var b ScheduleBlock
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	b.ID = id
	if err := h.svc.UpdateBlock(c.Request().Context(), &b); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, &b)
}

func (h *Handler) DeleteBlock(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule block ID")
	}
	if err := h.svc.DeleteBlock(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBlockNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
