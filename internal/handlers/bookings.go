package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/service"
)

type BookingService interface {
	Create(ctx context.Context, in service.BookingInput) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, f repo.BookingFilter, p repo.Page) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
}

type BookingHandler struct {
	Bookings BookingService
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bookings_create")

	var req service.BookingInput
	if err := bind(c, l, "create_booking", &req); err != nil {
		return err
	}

	b, err := h.Bookings.Create(ctx, req)
	if err != nil {
		return fail(l, "create_booking", err)
	}

	l.Info("create_booking_success", "status", 201, "booking_id", b.ID)
	return c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) GetBookings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bookings_list")

	page, err := pageFromQuery(c)
	if err != nil {
		return fail(l, "list_bookings", err)
	}
	f := repo.BookingFilter{
		Status:    optionalEnum[models.BookingStatus](c.QueryParam("status")),
		ServiceID: strings.TrimSpace(c.QueryParam("serviceId")),
		Date:      c.QueryParam("date"),
	}

	items, total, err := h.Bookings.List(ctx, f, page)
	if err != nil {
		return fail(l, "list_bookings", err)
	}
	return writePage(c, items, total, page)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bookings_get")

	b, err := h.Bookings.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_booking", err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bookings_status")

	var req struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := bind(c, l, "update_booking_status", &req); err != nil {
		return err
	}

	b, err := h.Bookings.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "update_booking_status", err)
	}

	l.Info("update_booking_status_success", "status", 200, "booking_id", b.ID, "booking_status", b.Status)
	return c.JSON(http.StatusOK, b)
}
