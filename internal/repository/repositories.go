// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
//
// Repositories are stateless: every method takes the database.Querier to run
// on, so the service decides whether a call joins a transaction. The SQL
// uses $N placeholders and runs unchanged on PostgreSQL and SQLite.
package repository

import (
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users      *UserRepository
	Houses     *HouseRepository
	Characters *CharacterRepository
	Books      *BookRepository
	Casts      *CastRepository
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		Users:      NewUserRepository(),
		Houses:     NewHouseRepository(),
		Characters: NewCharacterRepository(),
		Books:      NewBookRepository(),
		Casts:      NewCastRepository(),
	}
}

// notFound tags a no-rows error with its table so sqlerr.HandleError can
// name the entity ("table:books: no rows in result set" -> "Book not found").
func notFound(err error, table string) error {
	return errors.Wrap(err, "table:"+table)
}

// checkNoRows tags err with table when it is a no-rows error and returns
// any other error unchanged.
func checkNoRows(err error, table string) error {
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return notFound(err, table)
	}
	return err
}

// checkAffected turns a write that matched nothing into a not found error.
func checkAffected(affected int64, err error, table string) error {
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFound(sql.ErrNoRows, table)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
