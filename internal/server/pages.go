package server

import (
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// knownPages is the fixed set of site sections served as static templates.
var knownPages = map[string]bool{
	"sports":    true,
	"cultural":  true,
	"tech":      true,
	"club":      true,
	"fest":      true,
	"social":    true,
	"coderclub": true,
	"gdsc":      true,
	"robotics":  true,
}

// PagesHandler serves the public site pages from the templates directory.
type PagesHandler struct {
	TemplatesDir string
}

func (h *PagesHandler) Register(e *echo.Echo) {
	e.GET("/", h.index)
	e.GET("/:page", h.page)
}

func (h *PagesHandler) index(c echo.Context) error {
	return c.File(filepath.Join(h.TemplatesDir, "index.html"))
}

func (h *PagesHandler) page(c echo.Context) error {
	name := c.Param("page")
	if !knownPages[name] {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return c.File(filepath.Join(h.TemplatesDir, name+".html"))
}
