package service

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/sqlerr"
)

type HouseService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewHouseService(s *server.Server, repos *repository.Repositories) *HouseService {
	return &HouseService{server: s, repos: repos}
}

func (s *HouseService) List(ctx context.Context) ([]model.House, error) {
	houses, err := s.repos.Houses.List(ctx, s.server.DB.Querier())
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return houses, nil
}

func (s *HouseService) Get(ctx context.Context, id int64) (*model.House, error) {
	house, err := s.repos.Houses.GetByID(ctx, s.server.DB.Querier(), id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return house, nil
}

// Characters lists the members of a house; an empty house yields an empty
// list, a missing one NotFound.
func (s *HouseService) Characters(ctx context.Context, id int64) ([]model.Character, error) {
	q := s.server.DB.Querier()
	if _, err := s.repos.Houses.GetByID(ctx, q, id); err != nil {
		return nil, sqlerr.HandleError(err)
	}

	characters, err := s.repos.Characters.ListByHouse(ctx, q, id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return characters, nil
}

func (s *HouseService) Create(ctx context.Context, req *model.CreateHouseRequest) (*model.House, error) {
	var house *model.House
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		var err error
		house, err = s.repos.Houses.Create(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return house, nil
}

func (s *HouseService) Update(ctx context.Context, req *model.UpdateHouseRequest) (*model.House, error) {
	var house *model.House
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if _, err := s.repos.Houses.GetByID(ctx, q, req.ID); err != nil {
			return err
		}

		var err error
		house, err = s.repos.Houses.Update(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return house, nil
}

func (s *HouseService) Delete(ctx context.Context, id int64) error {
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		return s.repos.Houses.Delete(ctx, q, id)
	})
	return sqlerr.HandleWriteError(err)
}
