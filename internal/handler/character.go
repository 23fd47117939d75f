package handler

import (
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/labstack/echo/v4"
)

type CharacterHandler struct {
	Handler
	characters *service.CharacterService
}

func NewCharacterHandler(s *server.Server, characters *service.CharacterService) *CharacterHandler {
	return &CharacterHandler{
		Handler:    NewHandler(s),
		characters: characters,
	}
}

func (h *CharacterHandler) List(c echo.Context, _ *model.ListRequest) ([]model.Character, error) {
	return h.characters.List(c.Request().Context())
}

func (h *CharacterHandler) Get(c echo.Context, req *model.IDRequest) (*model.Character, error) {
	return h.characters.Get(c.Request().Context(), req.ID)
}

func (h *CharacterHandler) Create(c echo.Context, req *model.CreateCharacterRequest) (*model.Character, error) {
	return h.characters.Create(c.Request().Context(), req)
}

// Update replaces the character's fields and answers {"character": ...}.
func (h *CharacterHandler) Update(c echo.Context, req *model.UpdateCharacterRequest) (*model.CharacterEnvelope, error) {
	character, err := h.characters.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return &model.CharacterEnvelope{Character: character}, nil
}

func (h *CharacterHandler) Delete(c echo.Context, req *model.IDRequest) (model.DeletedResponse, error) {
	if err := h.characters.Delete(c.Request().Context(), req.ID); err != nil {
		return "", err
	}
	return model.Deleted("character"), nil
}
