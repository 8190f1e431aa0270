package handler

import (
	"net/http"

	"github.com/deppfellow/gameday/internal/server"
	"github.com/labstack/echo/v4"
)

// Resource describes one endpoint in the index served on GET /.
type Resource struct {
	Href    string   `json:"href"`
	Methods []string `json:"methods"`
}

// Index is the body of GET /.
type Index struct {
	Service   string              `json:"service"`
	Resources map[string]Resource `json:"resources"`
}

var resources = map[string]Resource{
	"teams":      {Href: "/teams", Methods: []string{http.MethodGet, http.MethodPost}},
	"team":       {Href: "/teams/{slug}", Methods: []string{http.MethodGet, http.MethodPatch, http.MethodDelete}},
	"team_games": {Href: "/teams/{slug}/games", Methods: []string{http.MethodGet}},
	"games":      {Href: "/games", Methods: []string{http.MethodGet, http.MethodPost}},
	"game":       {Href: "/games/{gameId}", Methods: []string{http.MethodGet, http.MethodPatch, http.MethodDelete}},
	"status":     {Href: "/status", Methods: []string{http.MethodGet}},
	"docs":       {Href: "/docs", Methods: []string{http.MethodGet}},
}

// IndexHandler lists the API resources so clients can discover them.
type IndexHandler struct {
	Handler
}

func NewIndexHandler(s *server.Server) *IndexHandler {
	return &IndexHandler{Handler: NewHandler(s)}
}

func (h *IndexHandler) ServeIndex(c echo.Context) error {
	service := "gameday"
	if obs := h.server.Config.Observability; obs != nil && obs.ServiceName != "" {
		service = obs.ServiceName
	}
	return c.JSON(http.StatusOK, Index{Service: service, Resources: resources})
}
