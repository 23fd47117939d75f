package repository

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/pkg/errors"
)

const housesTable = "houses"

type HouseRepository struct{}

func NewHouseRepository() *HouseRepository {
	return &HouseRepository{}
}

const houseColumns = `id, name`

func scanHouse(row scanner) (*model.House, error) {
	var house model.House
	if err := row.Scan(&house.ID, &house.Name); err != nil {
		return nil, err
	}
	return &house, nil
}

func (r *HouseRepository) List(ctx context.Context, q database.Querier) ([]model.House, error) {
	rows, err := q.Query(ctx, `SELECT `+houseColumns+` FROM houses ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list houses")
	}
	defer rows.Close()

	houses := make([]model.House, 0)
	for rows.Next() {
		house, err := scanHouse(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan house")
		}
		houses = append(houses, *house)
	}
	return houses, rows.Err()
}

func (r *HouseRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.House, error) {
	house, err := scanHouse(q.QueryRow(ctx, `SELECT `+houseColumns+` FROM houses WHERE id = $1`, id))
	if err != nil {
		return nil, checkNoRows(err, housesTable)
	}
	return house, nil
}

func (r *HouseRepository) Create(ctx context.Context, q database.Querier, req *model.CreateHouseRequest) (*model.House, error) {
	return scanHouse(q.QueryRow(ctx,
		`INSERT INTO houses (name) VALUES ($1) RETURNING `+houseColumns,
		req.Name,
	))
}

func (r *HouseRepository) Update(ctx context.Context, q database.Querier, req *model.UpdateHouseRequest) (*model.House, error) {
	house, err := scanHouse(q.QueryRow(ctx,
		`UPDATE houses SET name = $2 WHERE id = $1 RETURNING `+houseColumns,
		req.ID, req.Name,
	))
	if err != nil {
		return nil, checkNoRows(err, housesTable)
	}
	return house, nil
}

// Delete removes the house. Its characters keep existing with house_id NULL.
func (r *HouseRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	affected, err := q.Exec(ctx, `DELETE FROM houses WHERE id = $1`, id)
	return checkAffected(affected, err, housesTable)
}
