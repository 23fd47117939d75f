package service

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/errs"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/sqlerr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewUserService(s *server.Server, repos *repository.Repositories) *UserService {
	return &UserService{server: s, repos: repos}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repos.Users.List(ctx, s.server.DB.Querier())
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repos.Users.GetByID(ctx, s.server.DB.Querier(), id)
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return user, nil
}

// Create stores a bcrypt hash of the password. The hash is never checked
// anywhere; there is no login.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errs.NewBadRequestError("Password must not exceed 72 bytes", true, nil,
				[]errs.FieldError{{Field: "password", Error: "must not exceed 72 bytes"}})
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to hash password")
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	var user *model.User
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		var err error
		user, err = s.repos.Users.Create(ctx, q, req, passwordHash)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, req *model.UpdateUserRequest) (*model.User, error) {
	var user *model.User
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		if _, err := s.repos.Users.GetByID(ctx, q, req.ID); err != nil {
			return err
		}

		var err error
		user, err = s.repos.Users.Update(ctx, q, req)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleWriteError(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.server.DB.WithTx(ctx, func(q database.Querier) error {
		return s.repos.Users.Delete(ctx, q, id)
	})
	return sqlerr.HandleWriteError(err)
}
