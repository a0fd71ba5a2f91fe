package main

import (
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/middleware"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/labstack/echo/v4"
)

// registerUserRoutes mounts account administration. ADMIN only, checked at the route
// and again by the service.
//
//	GET    /usuarios
//	DELETE /usuarios/:id
//	PUT    /usuarios/:id/rol
func (a *api) registerUserRoutes(g *echo.Group) {
	u := g.Group("/usuarios")
	auth := a.jwt.Middleware()
	admin := middleware.RequireRoles(model.RoleAdmin)

	u.GET("", func(c echo.Context) error {
		list, err := a.users.List(c.Request().Context(), caller(c))
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	}, auth, admin)

	u.DELETE("/:id", func(c echo.Context) error {
		if err := a.users.Delete(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return a.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}, auth, admin)

	u.PUT("/:id/rol", func(c echo.Context) error {
		req := new(model.RoleChangeRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid role")
		}
		user, err := a.users.ChangeRole(c.Request().Context(), caller(c), c.Param("id"), req.Role)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, user)
	}, auth, admin)
}
