package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/deppfellow/castdb/internal/server"
	"github.com/labstack/echo/v4"
)

// SitemapHandler lists the registered endpoints at the root path.
type SitemapHandler struct {
	Handler
}

func NewSitemapHandler(s *server.Server) *SitemapHandler {
	return &SitemapHandler{
		Handler: NewHandler(s),
	}
}

type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type SitemapResponse struct {
	Endpoints []Endpoint `json:"endpoints"`
}

// ServeSitemap answers with every route, sorted by path then method.
// Echo's internal routes (paths starting with "/*") are left out.
func (h *SitemapHandler) ServeSitemap(c echo.Context) error {
	routes := c.Echo().Routes()
	endpoints := make([]Endpoint, 0, len(routes))
	seen := make(map[Endpoint]struct{}, len(routes))

	for _, route := range routes {
		if strings.HasPrefix(route.Path, "/*") || route.Method == echo.RouteNotFound {
			continue
		}
		endpoint := Endpoint{Method: route.Method, Path: route.Path}
		if _, ok := seen[endpoint]; ok {
			continue
		}
		seen[endpoint] = struct{}{}
		endpoints = append(endpoints, endpoint)
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})

	return c.JSON(http.StatusOK, SitemapResponse{Endpoints: endpoints})
}
