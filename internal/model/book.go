package model

type Book struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Order       int    `json:"order"`
	ReleaseDate Date   `json:"release_date"`
}

type BookEnvelope struct {
	Book *Book `json:"book"`
}

type BooksResponse struct {
	Books []Book `json:"books"`
}

type CreateBookRequest struct {
	Name        *string `json:"name"`
	Order       *int    `json:"order"`
	ReleaseDate *Date   `json:"release_date"`
}

func (r *CreateBookRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateBookRequest struct {
	ID          int64   `param:"id" json:"-" validate:"required,min=1"`
	Name        *string `json:"name"`
	Order       *int    `json:"order"`
	ReleaseDate *Date   `json:"release_date"`
}

func (r *UpdateBookRequest) Validate() error {
	return validate.Struct(r)
}
