package main

import (
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/labstack/echo/v4"
)

// registerAuthRoutes mounts the public credential endpoints.
//
//	POST /usuarios/login     -> token + user, rate limited per client IP
//	POST /usuarios/registro  -> creates a USER account
func (a *api) registerAuthRoutes(g *echo.Group) {
	g.POST("/usuarios/login", func(c echo.Context) error {
		req := new(model.LoginRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		resp, err := a.auth.Login(c.Request().Context(), req.Email, req.Password)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}, a.limiter.Middleware())

	g.POST("/usuarios/registro", func(c echo.Context) error {
		req := new(model.RegisterRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		resp, err := a.auth.Register(c.Request().Context(), *req)
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusCreated, resp)
	}, a.limiter.Middleware())
}
