package main

import (
	"net/http"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/labstack/echo/v4"
)

// gameRequest keeps an omitted protection distinguishable from PUBLIC.
type gameRequest struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	ImageURL      *string           `json:"image_url,omitempty"`
	ExternalLinks []string          `json:"external_links"`
	Protection    *model.Protection `json:"protection_status_id"`
}

func (r gameRequest) game() model.Game {
	g := model.Game{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		Tags:          r.Tags,
		ImageURL:      r.ImageURL,
		ExternalLinks: r.ExternalLinks,
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	if g.ExternalLinks == nil {
		g.ExternalLinks = []string{}
	}
	if r.Protection != nil {
		g.Protection = *r.Protection
	}
	return g
}

// registerGameRoutes mounts game endpoints.
// Public:
//
//	GET /juegos, GET /juegos/:id
//
// Authenticated (protection checked against the stored record):
//
//	POST /juegos, PUT /juegos/:id, DELETE /juegos/:id
func (a *api) registerGameRoutes(g *echo.Group) {
	g.GET("/juegos", func(c echo.Context) error {
		list, err := a.games.List(c.Request().Context())
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, list)
	})

	g.GET("/juegos/:id", func(c echo.Context) error {
		game, err := a.games.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, game)
	})

	auth := a.jwt.Middleware()

	g.POST("/juegos", func(c echo.Context) error {
		req := new(gameRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		game, err := a.games.Create(c.Request().Context(), caller(c), req.game())
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusCreated, game)
	}, auth)

	g.PUT("/juegos/:id", func(c echo.Context) error {
		req := new(gameRequest)
		if err := c.Bind(req); err != nil {
			return badRequest(c, "invalid request")
		}
		game, err := a.games.Update(c.Request().Context(), caller(c), c.Param("id"), req.game())
		if err != nil {
			return a.fail(c, err)
		}
		return c.JSON(http.StatusOK, game)
	}, auth)

	g.DELETE("/juegos/:id", func(c echo.Context) error {
		if err := a.games.Delete(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return a.fail(c, err)
		}
		return c.NoContent(http.StatusNoContent)
	}, auth)
}
