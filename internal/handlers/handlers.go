// Package handlers holds the echo handlers of the admin API. Handlers bind and
// parse requests, call a service and translate its errors to HTTP.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/util"
)

// Headers mirrored from the pagination envelope for clients that read them.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPerPage    = "X-Per-Page"
)

type messageResponse struct {
	Message string `json:"message"`
}

// fail logs err under "<op>_failed" and converts it to an echo error. Internal
// errors keep their detail in the log only.
func fail(l *slog.Logger, op string, err error) error {
	status := apperr.Status(err)
	switch {
	case status == http.StatusInternalServerError:
		l.Error(op+"_failed", "status", status, "error", err)
		return echo.NewHTTPError(status, "internal error")
	case status >= 500:
		l.Error(op+"_failed", "status", status, "reason", err.Error())
	default:
		l.Warn(op+"_failed", "status", status, "reason", err.Error())
	}
	return echo.NewHTTPError(status, err.Error())
}

func bind(c echo.Context, l *slog.Logger, op string, v any) error {
	if err := c.Bind(v); err != nil {
		l.Warn(op+"_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

func pageFromQuery(c echo.Context) (repo.Page, error) {
	return util.ParsePage(c.QueryParam("page"), c.QueryParam("limit"))
}

func writePage[T any](c echo.Context, items []T, total int64, p repo.Page) error {
	h := c.Response().Header()
	h.Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	h.Set(HeaderPage, strconv.Itoa(p.Page))
	h.Set(HeaderPerPage, strconv.Itoa(p.Limit))
	return c.JSON(http.StatusOK, util.NewPageResult(items, total, p))
}

// optionalEnum returns nil for an empty query value. Membership is checked
// by the service.
func optionalEnum[T ~string](v string) *T {
	if v == "" {
		return nil
	}
	out := T(v)
	return &out
}
