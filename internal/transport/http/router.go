package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/nail_salon/internal/handlers"
	"github.com/Skotchmaster/nail_salon/internal/metrics"
	authmw "github.com/Skotchmaster/nail_salon/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/nail_salon/internal/middleware/logging"
)

// uploadBodyLimit leaves room for the form fields around a maximal image.
const uploadBodyLimit = "11M"

type Deps struct {
	Guard          *authmw.Guard
	Metrics        *metrics.Metrics
	AuthHandler    *handlers.AuthHandler
	ServiceHandler *handlers.ServiceHandler
	BookingHandler *handlers.BookingHandler
	GalleryHandler *handlers.GalleryHandler
	HealthHandler  *handlers.HealthHandler
}

type Options struct {
	Logger *slog.Logger
	// AllowOrigins are the client and admin frontends.
	AllowOrigins []string
}

// Route is one endpoint. Routes are guarded by an access token unless Public
// is set; extra middleware runs after the guard.
type Route struct {
	Method     string
	Path       string
	Handler    echo.HandlerFunc
	Public     bool
	Middleware []echo.MiddlewareFunc
}

func Routes(d *Deps) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/health/live", Handler: d.HealthHandler.Live, Public: true},
		{Method: http.MethodGet, Path: "/health/ready", Handler: d.HealthHandler.Ready, Public: true},

		{Method: http.MethodPost, Path: "/auth/register", Handler: d.AuthHandler.Register, Public: true},
		{Method: http.MethodPost, Path: "/auth/login", Handler: d.AuthHandler.Login, Public: true},
		{Method: http.MethodPost, Path: "/auth/refresh", Handler: d.AuthHandler.Refresh, Public: true,
			Middleware: []echo.MiddlewareFunc{d.Guard.RequireRefresh}},
		{Method: http.MethodPost, Path: "/auth/logout", Handler: d.AuthHandler.Logout},

		{Method: http.MethodGet, Path: "/services", Handler: d.ServiceHandler.GetServices, Public: true},
		{Method: http.MethodGet, Path: "/services/search", Handler: d.ServiceHandler.SearchServices, Public: true},
		{Method: http.MethodGet, Path: "/services/:id", Handler: d.ServiceHandler.GetService, Public: true},
		{Method: http.MethodPost, Path: "/services", Handler: d.ServiceHandler.CreateService},
		{Method: http.MethodPatch, Path: "/services/:id", Handler: d.ServiceHandler.PatchService},
		{Method: http.MethodDelete, Path: "/services/:id", Handler: d.ServiceHandler.DeleteService},

		{Method: http.MethodPost, Path: "/bookings", Handler: d.BookingHandler.CreateBooking, Public: true},
		{Method: http.MethodGet, Path: "/bookings", Handler: d.BookingHandler.GetBookings},
		{Method: http.MethodGet, Path: "/bookings/:id", Handler: d.BookingHandler.GetBooking},
		{Method: http.MethodPatch, Path: "/bookings/:id/status", Handler: d.BookingHandler.UpdateBookingStatus},

		{Method: http.MethodGet, Path: "/gallery", Handler: d.GalleryHandler.GetGalleryItems, Public: true},
		{Method: http.MethodGet, Path: "/gallery/:id", Handler: d.GalleryHandler.GetGalleryItem, Public: true},
		{Method: http.MethodPost, Path: "/gallery", Handler: d.GalleryHandler.CreateGalleryItem},
		{Method: http.MethodPost, Path: "/gallery/upload", Handler: d.GalleryHandler.UploadGalleryItem,
			Middleware: []echo.MiddlewareFunc{middleware.BodyLimit(uploadBodyLimit)}},
		{Method: http.MethodPatch, Path: "/gallery/:id", Handler: d.GalleryHandler.PatchGalleryItem},
		{Method: http.MethodDelete, Path: "/gallery/:id", Handler: d.GalleryHandler.DeleteGalleryItem},
	}
}

func Register(e *echo.Echo, d *Deps) {
	for _, r := range Routes(d) {
		mw := r.Middleware
		if !r.Public {
			mw = append([]echo.MiddlewareFunc{d.Guard.RequireAccess}, mw...)
		}
		e.Add(r.Method, r.Path, r.Handler, mw...)
	}

	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
}

// New builds the echo instance with the global middleware chain and all
// routes registered.
func New(d *Deps, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	if opts.Logger != nil {
		e.Use(loggingmw.RequestLogger(opts.Logger))
	}
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     opts.AllowOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization},
		ExposeHeaders: []string{handlers.HeaderTotalCount, handlers.HeaderPage, handlers.HeaderPerPage},
	}))

	Register(e, d)
	return e
}
