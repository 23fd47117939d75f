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

const castAlreadyExistsCode = "CAST_ALREADY_EXISTS"

// CastService manages which characters appear in which books.
//
// A pair may be recorded once. There is no database constraint backing
// that; Create locks the book and checks for the pair inside the insert
// transaction, so concurrent inserts of the same pair run one at a time.
type CastService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewCastService(s *server.Server, repos *repository.Repositories) *CastService {
	return &CastService{server: s, repos: repos}
}

// Create records that the character appears in the book.
//
//   - NotFound when the book or the character does not exist
//   - Conflict when the pair is already recorded
func (s *CastService) Create(ctx context.Context, bookID, characterID int64) (*model.Cast, error) {
	var cast *model.Cast
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if _, err := s.repos.Books.GetForUpdate(ctx, q, bookID); err != nil {
			return sqlerr.HandleError(err)
		}
		if _, err := s.repos.Characters.GetByID(ctx, q, characterID); err != nil {
			return sqlerr.HandleError(err)
		}

		exists, err := s.repos.Casts.Exists(ctx, q, bookID, characterID)
		if err != nil {
			return err
		}
		if exists {
			return errs.NewConflictError("This character is already in the cast of this book", castAlreadyExistsCode)
		}

		cast, err = s.repos.Casts.Create(ctx, q, bookID, characterID)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return cast, nil
}

// ListByBook returns the cast rows of a book. No rows, whether because the
// book is missing or has no cast, is NotFound.
func (s *CastService) ListByBook(ctx context.Context, bookID int64) ([]model.Cast, error) {
	casts, err := s.repos.Casts.ListByBook(ctx, s.server.DB.Querier(), bookID)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if len(casts) == 0 {
		return nil, errs.NewNotFoundError("No cast members found for this book", true, nil)
	}
	return casts, nil
}

// BooksByCharacter returns the books a character appears in, NotFound when
// there are none.
func (s *CastService) BooksByCharacter(ctx context.Context, characterID int64) ([]model.Book, error) {
	books, err := s.repos.Casts.BooksByCharacter(ctx, s.server.DB.Querier(), characterID)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	if len(books) == 0 {
		return nil, errs.NewNotFoundError("No books found for this character", true, nil)
	}
	return books, nil
}

func (s *CastService) Delete(ctx context.Context, bookID, characterID int64) error {
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		return s.repos.Casts.Delete(ctx, q, bookID, characterID)
	})
	if err == nil {
		return nil
	}

	handled := sqlerr.HandleWriteError(err)
	var httpErr *errs.HTTPError
	if errors.As(handled, &httpErr) && errors.Is(httpErr, errs.ErrNotFound) {
		return httpErr.WithMessage("Cast member not found")
	}
	return handled
}
