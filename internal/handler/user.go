package handler

import (
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// Greet answers GET /user with a fixed message.
func (h *UserHandler) Greet(c echo.Context, _ *model.ListRequest) (model.MessageResponse, error) {
	return model.MessageResponse{Msg: model.UserGreeting}, nil
}

func (h *UserHandler) List(c echo.Context, _ *model.ListRequest) ([]model.User, error) {
	return h.users.List(c.Request().Context())
}

func (h *UserHandler) Get(c echo.Context, req *model.IDRequest) (*model.User, error) {
	return h.users.Get(c.Request().Context(), req.ID)
}

func (h *UserHandler) Create(c echo.Context, req *model.CreateUserRequest) (*model.User, error) {
	return h.users.Create(c.Request().Context(), req)
}

func (h *UserHandler) Update(c echo.Context, req *model.UpdateUserRequest) (*model.UserEnvelope, error) {
	user, err := h.users.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return &model.UserEnvelope{User: user}, nil
}

func (h *UserHandler) Delete(c echo.Context, req *model.IDRequest) (model.DeletedResponse, error) {
	if err := h.users.Delete(c.Request().Context(), req.ID); err != nil {
		return "", err
	}
	return model.Deleted("user"), nil
}
