package main

import (
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/labstack/echo/v4"
)

// registerProductRoutes mounts the store. Writes need ADMIN or SELLER.
func (a *api) registerProductRoutes(g *echo.Group) {
	g.GET("/productos", func(c echo.Context) error {
		list, err := a.products.List(c.Request().Context())
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	auth := a.jwt.Middleware()

	g.POST("/productos", func(c echo.Context) error {
		req := new(model.Product)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		product, err := a.products.Create(c.Request().Context(), caller(c), *req)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusCreated, product)
	}, auth)

	g.PUT("/productos/:id", func(c echo.Context) error {
		req := new(model.Product)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		product, err := a.products.Update(c.Request().Context(), caller(c), c.Param("id"), *req)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, product)
	}, auth)

	g.DELETE("/productos/:id", func(c echo.Context) error {
		if err := a.products.Delete(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return a.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}, auth)
}
