package repository

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/pkg/errors"
)

const usersTable = "users"

// UserRepository never reads the password column back.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

const userColumns = `id, email, is_active`

func scanUser(row scanner) (*model.User, error) {
	var user model.User
	if err := row.Scan(&user.ID, &user.Email, &user.IsActive); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context, q database.Querier) ([]model.User, error) {
	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.User, error) {
	user, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, checkNoRows(err, usersTable)
	}
	return user, nil
}

// Create stores passwordHash as given; hashing is the caller's job.
func (r *UserRepository) Create(ctx context.Context, q database.Querier, req *model.CreateUserRequest, passwordHash *string) (*model.User, error) {
	return scanUser(q.QueryRow(ctx, `
		INSERT INTO users (email, password, is_active)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		req.Email, passwordHash, req.IsActive,
	))
}

func (r *UserRepository) Update(ctx context.Context, q database.Querier, req *model.UpdateUserRequest) (*model.User, error) {
	user, err := scanUser(q.QueryRow(ctx, `
		UPDATE users SET email = $2, is_active = $3
		WHERE id = $1
		RETURNING `+userColumns,
		req.ID, req.Email, req.IsActive,
	))
	if err != nil {
		return nil, checkNoRows(err, usersTable)
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	affected, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return checkAffected(affected, err, usersTable)
}
