package service

import (
	"context"
	"errors"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/errs"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/sqlerr"
)

type CharacterService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewCharacterService(s *server.Server, repos *repository.Repositories) *CharacterService {
	return &CharacterService{server: s, repos: repos}
}

func (s *CharacterService) List(ctx context.Context) ([]model.Character, error) {
	characters, err := s.repos.Characters.List(ctx, s.server.DB.Querier())
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return characters, nil
}

func (s *CharacterService) Get(ctx context.Context, id int64) (*model.Character, error) {
	character, err := s.repos.Characters.GetByID(ctx, s.server.DB.Querier(), id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return character, nil
}

// Create inserts the character. A house_id naming no house fails the same
// way on every driver: SQLite's foreign key error does not say which
// reference was missing, so the house is looked up first.
func (s *CharacterService) Create(ctx context.Context, req *model.CreateCharacterRequest) (*model.Character, error) {
	var character *model.Character
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if req.HouseID != nil {
			if _, err := s.repos.Houses.GetByID(ctx, q, *req.HouseID); err != nil {
				if errors.Is(sqlerr.HandleError(err), errs.ErrNotFound) {
					return sqlerr.NewForeignKeyError("characters", "house_id")
				}
				return err
			}
		}

		var err error
		character, err = s.repos.Characters.Create(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return character, nil
}

// Update replaces every mutable field. Fields missing from req are written
// as NULL, so a partial body is rejected by the NOT NULL columns.
func (s *CharacterService) Update(ctx context.Context, req *model.UpdateCharacterRequest) (*model.Character, error) {
	var character *model.Character
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if _, err := s.repos.Characters.GetByID(ctx, q, req.ID); err != nil {
			return err
		}

		var err error
		character, err = s.repos.Characters.Update(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return character, nil
}

func (s *CharacterService) Delete(ctx context.Context, id int64) error {
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		return s.repos.Characters.Delete(ctx, q, id)
	})
	return sqlerr.HandleWriteError(err)
}
