package handler

import (
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/labstack/echo/v4"
)

type HouseHandler struct {
	Handler
	houses *service.HouseService
}

func NewHouseHandler(s *server.Server, houses *service.HouseService) *HouseHandler {
	return &HouseHandler{
		Handler: NewHandler(s),
		houses:  houses,
	}
}

func (h *HouseHandler) List(c echo.Context, _ *model.ListRequest) ([]model.House, error) {
	return h.houses.List(c.Request().Context())
}

func (h *HouseHandler) Get(c echo.Context, req *model.IDRequest) (*model.House, error) {
	return h.houses.Get(c.Request().Context(), req.ID)
}

// Characters lists the members of a house.
func (h *HouseHandler) Characters(c echo.Context, req *model.IDRequest) (*model.HouseCharactersResponse, error) {
	characters, err := h.houses.Characters(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &model.HouseCharactersResponse{Characters: characters}, nil
}

func (h *HouseHandler) Create(c echo.Context, req *model.CreateHouseRequest) (*model.House, error) {
	return h.houses.Create(c.Request().Context(), req)
}

func (h *HouseHandler) Update(c echo.Context, req *model.UpdateHouseRequest) (*model.HouseEnvelope, error) {
	house, err := h.houses.Update(c.Request().Context(), req)
	if err != nil {
		return nil, err
	}
	return &model.HouseEnvelope{House: house}, nil
}

func (h *HouseHandler) Delete(c echo.Context, req *model.IDRequest) (model.DeletedResponse, error) {
	if err := h.houses.Delete(c.Request().Context(), req.ID); err != nil {
		return "", err
	}
	return model.Deleted("house"), nil
}
