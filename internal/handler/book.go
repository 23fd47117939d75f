package handler

import (
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/labstack/echo/v4"
)

type BookHandler struct {
	Handler
	books *service.BookService
}

func NewBookHandler(s *server.Server, books *service.BookService) *BookHandler {
	return &BookHandler{
		Handler: NewHandler(s),
		books:   books,
	}
}

func (h *BookHandler) List(c echo.Context, _ *model.ListRequest) ([]model.Book, error) {
	return h.books.List(c.Request().Context())
}

func (h *BookHandler) Get(c echo.Context, req *model.IDRequest) (*model.Book, error) {
	return h.books.Get(c.Request().Context(), req.ID)
}

func (h *BookHandler) Create(c echo.Context, req *model.CreateBookRequest) (*model.Book, error) {
	return h.books.Create(c.Request().Context(), req)
}

func (h *BookHandler) Update(c echo.Context, req *model.UpdateBookRequest) (*model.BookEnvelope, error) {
	book, err := h.books.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return &model.BookEnvelope{Book: book}, nil
}

func (h *BookHandler) Delete(c echo.Context, req *model.IDRequest) (model.DeletedResponse, error) {
	if err := h.books.Delete(c.Request().Context(), req.ID); err != nil {
		return "", err
	}
	return model.Deleted("book"), nil
}
