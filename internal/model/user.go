package model

// User is an account. Only id and email are ever serialized.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	IsActive bool   `json:"-"`
}

type UserEnvelope struct {
	User *User `json:"user"`
}

// CreateUserRequest fields are optional; missing ones are stored as NULL and
// rejected by the NOT NULL constraints.
type CreateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	IsActive *bool   `json:"is_active"`
}

func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateUserRequest replaces email and is_active. The password is not
// updatable through this payload.
type UpdateUserRequest struct {
	ID       int64   `param:"id" json:"-" validate:"required,min=1"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

func (r *UpdateUserRequest) Validate() error {
	return validate.Struct(r)
}

// UserGreeting is the fixed body of GET /user.
const UserGreeting = "Hello, this is your GET /user response "
