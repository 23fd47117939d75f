package model

// Cast records that a character appears in a book.
type Cast struct {
	ID          int64 `json:"id"`
	CharacterID int64 `json:"character_id"`
	BookID      int64 `json:"book_id"`
}

type CastMemberEnvelope struct {
	CastMember *Cast `json:"cast member"`
}

type CastResponse struct {
	Cast []Cast `json:"cast"`
}

// CastPairRequest addresses one (book, character) pair by path.
type CastPairRequest struct {
	BookID      int64 `param:"book_id" json:"-" validate:"required,min=1"`
	CharacterID int64 `param:"character_id" json:"-" validate:"required,min=1"`
}

func (r *CastPairRequest) Validate() error {
	return validate.Struct(r)
}
