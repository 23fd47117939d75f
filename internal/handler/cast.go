package handler

import (
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/labstack/echo/v4"
)

type CastHandler struct {
	Handler
	casts *service.CastService
}

func NewCastHandler(s *server.Server, casts *service.CastService) *CastHandler {
	return &CastHandler{
		Handler: NewHandler(s),
		casts:   casts,
	}
}

// Create records a (book, character) pair and answers {"cast member": ...}.
func (h *CastHandler) Create(c echo.Context, req *model.CastPairRequest) (*model.CastMemberEnvelope, error) {
	cast, err := h.casts.Create(c.Request().Context(), req.BookID, req.CharacterID)
	if err != nil {
		return nil, err
	}
	return &model.CastMemberEnvelope{CastMember: cast}, nil
}

func (h *CastHandler) ListByBook(c echo.Context, req *model.IDRequest) (*model.CastResponse, error) {
	casts, err := h.casts.ListByBook(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &model.CastResponse{Cast: casts}, nil
}

// BooksByCharacter answers {"books": [...]} with every book the character
// appears in.
func (h *CastHandler) BooksByCharacter(c echo.Context, req *model.IDRequest) (*model.BooksResponse, error) {
	books, err := h.casts.BooksByCharacter(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &model.BooksResponse{Books: books}, nil
}

func (h *CastHandler) Delete(c echo.Context, req *model.CastPairRequest) (model.DeletedResponse, error) {
	if err := h.casts.Delete(c.Request().Context(), req.BookID, req.CharacterID); err != nil {
		return "", err
	}
	return model.Deleted("cast member"), nil
}
