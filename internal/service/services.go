// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives validated
// data from the handler, runs each write inside a single transaction and
// converts storage errors into API errors through sqlerr.
package service

import (
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/server"
)

type Services struct {
	Users      *UserService
	Houses     *HouseService
	Characters *CharacterService
	Books      *BookService
	Casts      *CastService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Users:      NewUserService(s, repos),
		Houses:     NewHouseService(s, repos),
		Characters: NewCharacterService(s, repos),
		Books:      NewBookService(s, repos),
		Casts:      NewCastService(s, repos),
	}, nil
}
