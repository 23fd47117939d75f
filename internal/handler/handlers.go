package handler

import (
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health     *HealthHandler
	Sitemap    *SitemapHandler
	Users      *UserHandler
	Houses     *HouseHandler
	Characters *CharacterHandler
	Books      *BookHandler
	Casts      *CastHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		Sitemap:    NewSitemapHandler(s),
		Users:      NewUserHandler(s, services.Users),
		Houses:     NewHouseHandler(s, services.Houses),
		Characters: NewCharacterHandler(s, services.Characters),
		Books:      NewBookHandler(s, services.Books),
		Casts:      NewCastHandler(s, services.Casts),
	}
}
