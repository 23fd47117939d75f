package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var req CreateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name": "A", "order": 1, "release_date": "1996-08-01"}`), &req))
	require.NotNil(t, req.ReleaseDate)
	assert.Equal(t, "1996-08-01", req.ReleaseDate.String())

	out, err := json.Marshal(Book{ID: 1, Name: "A", Order: 1, ReleaseDate: *req.ReleaseDate})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1, "name": "A", "order": 1, "release_date": "1996-08-01"}`, string(out))
}

func TestDate_UnmarshalNull(t *testing.T) {
	var req CreateBookRequest
	require.NoError(t, json.Unmarshal([]byte(`{"release_date": null}`), &req))
	assert.Nil(t, req.ReleaseDate)
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	for _, input := range []string{`"01/08/1996"`, `19960801`, `"1996-13-01"`} {
		var d Date
		assert.Error(t, d.UnmarshalJSON([]byte(input)), input)
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want string
	}{
		{"time", time.Date(1996, 8, 1, 15, 30, 0, 0, time.UTC), "1996-08-01"},
		{"date text", "1998-11-16", "1998-11-16"},
		{"datetime text", "2000-08-08 00:00:00+00:00", "2000-08-08"},
		{"bytes", []byte("2005-10-17"), "2005-10-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.src))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("soon"))
}

func TestDeleted(t *testing.T) {
	out, err := json.Marshal(Deleted("cast member"))
	require.NoError(t, err)
	assert.Equal(t, `"cast member deleted successfully"`, string(out))
}

func TestUserSerialization(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Email: "arya@winterfell.org", Password: "hash", IsActive: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 1, "email": "arya@winterfell.org"}`, string(out))
}

func TestCastMemberEnvelope(t *testing.T) {
	out, err := json.Marshal(CastMemberEnvelope{CastMember: &Cast{ID: 1, CharacterID: 2, BookID: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cast member": {"id": 1, "character_id": 2, "book_id": 3}}`, string(out))
}
