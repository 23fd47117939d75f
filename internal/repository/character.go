package repository

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/pkg/errors"
)

const charactersTable = "characters"

type CharacterRepository struct{}

func NewCharacterRepository() *CharacterRepository {
	return &CharacterRepository{}
}

const characterColumns = `id, name, gender, species, is_alive, house_id`

func scanCharacter(row scanner) (*model.Character, error) {
	var c model.Character
	if err := row.Scan(&c.ID, &c.Name, &c.Gender, &c.Species, &c.IsAlive, &c.HouseID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CharacterRepository) list(ctx context.Context, q database.Querier, query string, args ...any) ([]model.Character, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}
	defer rows.Close()

	characters := make([]model.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan character")
		}
		characters = append(characters, *c)
	}
	return characters, rows.Err()
}

func (r *CharacterRepository) List(ctx context.Context, q database.Querier) ([]model.Character, error) {
	return r.list(ctx, q, `SELECT `+characterColumns+` FROM characters ORDER BY id`)
}

func (r *CharacterRepository) ListByHouse(ctx context.Context, q database.Querier, houseID int64) ([]model.Character, error) {
	return r.list(ctx, q, `SELECT `+characterColumns+` FROM characters WHERE house_id = $1 ORDER BY id`, houseID)
}

func (r *CharacterRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Character, error) {
	c, err := scanCharacter(q.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		return nil, checkNoRows(err, charactersTable)
	}
	return c, nil
}

func (r *CharacterRepository) Create(ctx context.Context, q database.Querier, req *model.CreateCharacterRequest) (*model.Character, error) {
	return scanCharacter(q.QueryRow(ctx, `
		INSERT INTO characters (name, gender, species, is_alive, house_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+characterColumns,
		req.Name, req.Gender, req.Species, req.IsAlive, req.HouseID,
	))
}

// Update overwrites name, gender, species and is_alive, NULL included.
func (r *CharacterRepository) Update(ctx context.Context, q database.Querier, req *model.UpdateCharacterRequest) (*model.Character, error) {
	c, err := scanCharacter(q.QueryRow(ctx, `
		UPDATE characters SET name = $2, gender = $3, species = $4, is_alive = $5
		WHERE id = $1
		RETURNING `+characterColumns,
		req.ID, req.Name, req.Gender, req.Species, req.IsAlive,
	))
	if err != nil {
		return nil, checkNoRows(err, charactersTable)
	}
	return c, nil
}

// Delete removes the character; its cast rows go with it.
func (r *CharacterRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	affected, err := q.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	return checkAffected(affected, err, charactersTable)
}
