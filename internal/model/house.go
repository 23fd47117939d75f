package model

type House struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type HouseEnvelope struct {
	House *House `json:"house"`
}

type HouseCharactersResponse struct {
	Characters []Character `json:"characters"`
}

type CreateHouseRequest struct {
	Name *string `json:"name"`
}

func (r *CreateHouseRequest) Validate() error {
	return validate.Struct(r)
}

type UpdateHouseRequest struct {
	ID   int64   `param:"id" json:"-" validate:"required,min=1"`
	Name *string `json:"name"`
}

func (r *UpdateHouseRequest) Validate() error {
	return validate.Struct(r)
}
