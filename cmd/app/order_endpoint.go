package main

import (
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/middleware"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/labstack/echo/v4"
)

type statusRequest struct {
	Status string `json:"status"`
}

// registerOrderRoutes mounts purchases.
//
//	POST /compras?userId=     -> signed-in checkout for oneself, 409 when any line lacks stock
//	GET  /compras             -> ADMIN / MANAGER
//	PUT  /compras/:id/estado  -> ADMIN / MANAGER, any status to any status
func (a *api) registerOrderRoutes(g *echo.Group) {
	auth := a.jwt.Middleware()
	staff := middleware.RequireRoles(model.RoleAdmin, model.RoleManager)

	g.POST("/compras", func(c echo.Context) error {
		var lines []model.CartLine
		if err := c.Bind(&lines); err != nil {
			return badRequest(c, "invalid cart")
		}
		order, err := a.orders.Checkout(c.Request().Context(), caller(c), c.QueryParam("userId"), lines)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusCreated, order)
	}, auth)

	g.GET("/compras", func(c echo.Context) error {
		list, err := a.orders.List(c.Request().Context(), caller(c))
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}, auth, staff)

	g.PUT("/compras/:id/estado", func(c echo.Context) error {
		req := new(statusRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		order, err := a.orders.UpdateStatus(c.Request().Context(), caller(c), c.Param("id"), req.Status)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, order)
	}, auth, staff)
}
