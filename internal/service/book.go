package service

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/sqlerr"
)

type BookService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewBookService(s *server.Server, repos *repository.Repositories) *BookService {
	return &BookService{server: s, repos: repos}
}

func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.repos.Books.List(ctx, s.server.DB.Querier())
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return books, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repos.Books.GetByID(ctx, s.server.DB.Querier(), id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return book, nil
}

func (s *BookService) Create(ctx context.Context, req *model.CreateBookRequest) (*model.Book, error) {
	var book *model.Book
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		var err error
		book, err = s.repos.Books.Create(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return book, nil
}

// Update replaces name, order and release_date; see CharacterService.Update.
func (s *BookService) Update(ctx context.Context, req *model.UpdateBookRequest) (*model.Book, error) {
	var book *model.Book
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if _, err := s.repos.Books.GetByID(ctx, q, req.ID); err != nil {
			return err
		}

		var err error
		book, err = s.repos.Books.Update(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		return s.repos.Books.Delete(ctx, q, id)
	})
	return sqlerr.HandleWriteError(err)
}
