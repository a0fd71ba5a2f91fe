package main

import (
	"errors"
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/middleware"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"
	"github.com/estaidesoriginal/biblioteca-G/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type api struct {
	auth     *services.AuthService
	users    *services.UserService
	games    *services.GameService
	products *services.ProductService
	orders   *services.OrderService
	payments *services.PaymentService

	jwt     *middleware.JWT
	limiter *middleware.LoginLimiter
	metrics *middleware.Metrics
	log     logrus.FieldLogger
}

func (a *api) echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(a.metrics.Middleware())

	g := e.Group("")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	a.registerAuthRoutes(g)
	a.registerUserRoutes(g)
	a.registerGameRoutes(g)
	a.registerProductRoutes(g)
	a.registerOrderRoutes(g)
	a.registerPaymentRoutes(g)

	e.GET("/metrics", a.metrics.Handler())
	return e
}

func caller(c echo.Context) services.Caller {
	cl := middleware.GetClaims(c)
	if cl == nil {
		return services.Caller{}
	}
	return services.Caller{UserID: cl.UserID, Role: cl.RoleValue()}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

// fail maps service errors to status codes. Unexpected errors are logged and
// hidden from the caller.
func (a *api) fail(c echo.Context, err error) error {
	var verr *apperr.ValidationError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrAuthorizationDenied):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidSignature):
		status = http.StatusUnauthorized
	case errors.As(err, &verr):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrEmailTaken), errors.Is(err, repository.ErrInsufficientStock):
		status = http.StatusConflict
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		a.log.WithError(err).WithField("path", c.Path()).Error("request failed")
		msg = "internal error"
	}
	return c.JSON(status, map[string]string{"error": msg})
}
