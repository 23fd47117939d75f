package model

type Character struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Gender  string `json:"gender"`
	Species string `json:"species"`
	IsAlive bool   `json:"is_alive"`
	HouseID *int64 `json:"house_id"`
}

type CharacterEnvelope struct {
	Character *Character `json:"character"`
}

type CreateCharacterRequest struct {
	Name    *string `json:"name"`
	Gender  *string `json:"gender"`
	Species *string `json:"species"`
	IsAlive *bool   `json:"is_alive"`
	HouseID *int64  `json:"house_id" validate:"omitempty,min=1"`
}

func (r *CreateCharacterRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateCharacterRequest replaces name, gender, species and is_alive.
// house_id is left as it is.
type UpdateCharacterRequest struct {
	ID      int64   `param:"id" json:"-" validate:"required,min=1"`
	Name    *string `json:"name"`
	Gender  *string `json:"gender"`
	Species *string `json:"species"`
	IsAlive *bool   `json:"is_alive"`
}

func (r *UpdateCharacterRequest) Validate() error {
	return validate.Struct(r)
}
