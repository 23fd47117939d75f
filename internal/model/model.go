// Package model holds the entities, their wire representation and the
// request payloads the handlers bind into.
//
// JSON tags are the allow-list: a field without a tag never reaches the
// client. Optional fields are pointers and serialize as null, never omitted.
package model

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IDRequest carries a single numeric path id.
type IDRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,min=1"`
}

func (r *IDRequest) Validate() error {
	return validate.Struct(r)
}

// ListRequest is the empty payload of the list endpoints.
type ListRequest struct{}

func (r *ListRequest) Validate() error {
	return nil
}

// MessageResponse is the {"msg": ...} envelope.
type MessageResponse struct {
	Msg string `json:"msg"`
}

// DeletedResponse is the bare JSON string returned by DELETE endpoints,
// e.g. "character deleted successfully".
type DeletedResponse string

// Deleted builds the confirmation for entity.
func Deleted(entity string) DeletedResponse {
	return DeletedResponse(entity + " deleted successfully")
}
