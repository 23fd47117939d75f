package repository

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/pkg/errors"
)

const castsTable = "casts"

type CastRepository struct{}

func NewCastRepository() *CastRepository {
	return &CastRepository{}
}

const castColumns = `id, character_id, book_id`

func scanCast(row scanner) (*model.Cast, error) {
	var c model.Cast
	if err := row.Scan(&c.ID, &c.CharacterID, &c.BookID); err != nil {
		return nil, err
	}
	return &c, nil
}

// Exists reports whether the (book, character) pair is already recorded.
func (r *CastRepository) Exists(ctx context.Context, q database.Querier, bookID, characterID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM casts WHERE book_id = $1 AND character_id = $2)`,
		bookID, characterID,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to check cast pair")
	}
	return exists, nil
}

func (r *CastRepository) Create(ctx context.Context, q database.Querier, bookID, characterID int64) (*model.Cast, error) {
	return scanCast(q.QueryRow(ctx,
		`INSERT INTO casts (character_id, book_id) VALUES ($1, $2) RETURNING `+castColumns,
		characterID, bookID,
	))
}

func (r *CastRepository) ListByBook(ctx context.Context, q database.Querier, bookID int64) ([]model.Cast, error) {
	rows, err := q.Query(ctx, `SELECT `+castColumns+` FROM casts WHERE book_id = $1 ORDER BY id`, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cast")
	}
	defer rows.Close()

	casts := make([]model.Cast, 0)
	for rows.Next() {
		c, err := scanCast(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan cast")
		}
		casts = append(casts, *c)
	}
	return casts, rows.Err()
}

// BooksByCharacter resolves the books a character appears in.
func (r *CastRepository) BooksByCharacter(ctx context.Context, q database.Querier, characterID int64) ([]model.Book, error) {
	rows, err := q.Query(ctx, `
		SELECT b.id, b.name, b."order", b.release_date
		FROM books b
		JOIN casts c ON c.book_id = b.id
		WHERE c.character_id = $1
		ORDER BY b.id`,
		characterID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books for character")
	}
	return scanBooks(rows)
}

func (r *CastRepository) Delete(ctx context.Context, q database.Querier, bookID, characterID int64) error {
	affected, err := q.Exec(ctx, `DELETE FROM casts WHERE book_id = $1 AND character_id = $2`, bookID, characterID)
	return checkAffected(affected, err, castsTable)
}
