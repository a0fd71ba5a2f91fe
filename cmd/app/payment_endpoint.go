package main

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

func (a *api) registerPaymentRoutes(g *echo.Group) {
	// ============================
	// MIDTRANS NOTIFICATION
	// (NO JWT, must be public)
	// ============================
	g.POST("/pagos/notificacion", func(c echo.Context) error {
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, 64<<10))
		if err != nil {
			return c.JSON(http.StatusOK, echo.Map{"status": "ignored", "reason": "unreadable body"})
		}
		if err := a.payments.HandleNotification(c.Request().Context(), body); err != nil {
			// Midtrans retries anything but 200
			a.log.WithError(err).Warn("payment notification ignored")
			return c.JSON(http.StatusOK, echo.Map{"status": "ignored", "reason": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// ============================
	// PAYMENT INITIATION
	// (JWT protected, order owner only)
	// ============================
	g.POST("/compras/:id/pago", func(c echo.Context) error {
		redirectURL, err := a.payments.CreateSnapPayment(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"redirect_url": redirectURL})
	}, a.jwt.Middleware())
}
