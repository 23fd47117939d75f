package repository

import (
	"context"

	"github.com/deppfellow/castdb/internal/database"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/pkg/errors"
)

const booksTable = "books"

type BookRepository struct{}

func NewBookRepository() *BookRepository {
	return &BookRepository{}
}

// "order" is reserved in both dialects.
const bookColumns = `id, name, "order", release_date`

func scanBook(row scanner) (*model.Book, error) {
	var b model.Book
	if err := row.Scan(&b.ID, &b.Name, &b.Order, &b.ReleaseDate); err != nil {
		return nil, err
	}
	return &b, nil
}

// dateArg binds a NULL for a missing date instead of a typed nil pointer.
func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func scanBooks(rows database.Rows) ([]model.Book, error) {
	defer rows.Close()

	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan book")
		}
		books = append(books, *b)
	}
	return books, rows.Err()
}

func (r *BookRepository) List(ctx context.Context, q database.Querier) ([]model.Book, error) {
	rows, err := q.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	return scanBooks(rows)
}

func (r *BookRepository) GetByID(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	b, err := scanBook(q.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		return nil, checkNoRows(err, booksTable)
	}
	return b, nil
}

// GetForUpdate is GetByID that, on PostgreSQL, also locks the row until the
// transaction ends. SQLite transactions already hold the database write lock.
func (r *BookRepository) GetForUpdate(ctx context.Context, q database.Querier, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	if q.Driver() == database.DriverPostgres {
		query += ` FOR UPDATE`
	}

	b, err := scanBook(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, checkNoRows(err, booksTable)
	}
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, q database.Querier, req *model.CreateBookRequest) (*model.Book, error) {
	return scanBook(q.QueryRow(ctx, `
		INSERT INTO books (name, "order", release_date)
		VALUES ($1, $2, $3)
		RETURNING `+bookColumns,
		req.Name, req.Order, dateArg(req.ReleaseDate),
	))
}

// Update overwrites name, order and release_date, NULL included.
func (r *BookRepository) Update(ctx context.Context, q database.Querier, req *model.UpdateBookRequest) (*model.Book, error) {
	b, err := scanBook(q.QueryRow(ctx, `
		UPDATE books SET name = $2, "order" = $3, release_date = $4
		WHERE id = $1
		RETURNING `+bookColumns,
		req.ID, req.Name, req.Order, dateArg(req.ReleaseDate),
	))
	if err != nil {
		return nil, checkNoRows(err, booksTable)
	}
	return b, nil
}

// Delete removes the book; its cast rows go with it.
func (r *BookRepository) Delete(ctx context.Context, q database.Querier, id int64) error {
	affected, err := q.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	return checkAffected(affected, err, booksTable)
}
