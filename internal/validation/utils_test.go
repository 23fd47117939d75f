package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/castdb/internal/errs"
	"github.com/deppfellow/castdb/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, body string, names, values []string) echo.Context {
	e := echo.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, "/", nil)
	} else {
		req = httptest.NewRequest(method, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func TestBindAndValidate(t *testing.T) {
	c := newContext(http.MethodPut, `{"name": "Stark", "id": 99}`, []string{"id"}, []string{"7"})

	var req model.UpdateHouseRequest
	require.NoError(t, BindAndValidate(c, &req))
	assert.Equal(t, int64(7), req.ID)
	require.NotNil(t, req.Name)
	assert.Equal(t, "Stark", *req.Name)
}

func TestBindAndValidate_PathPair(t *testing.T) {
	c := newContext(http.MethodPost, "", []string{"book_id", "character_id"}, []string{"3", "5"})

	var req model.CastPairRequest
	require.NoError(t, BindAndValidate(c, &req))
	assert.Equal(t, int64(3), req.BookID)
	assert.Equal(t, int64(5), req.CharacterID)
}

func TestBindAndValidate_BindError(t *testing.T) {
	c := newContext(http.MethodGet, "", []string{"id"}, []string{"abc"})

	var req model.IDRequest
	err := BindAndValidate(c, &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "id", Error: "must be a positive integer"}}, httpErr.Errors)
}

func TestBindAndValidate_NonNumericPathPair(t *testing.T) {
	c := newContext(http.MethodPost, "", []string{"book_id", "character_id"}, []string{"book", "x"})

	var req model.CastPairRequest
	err := BindAndValidate(c, &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.NotContains(t, httpErr.Message, "strconv")
	assert.Equal(t, []errs.FieldError{
		{Field: "book_id", Error: "must be a positive integer"},
		{Field: "character_id", Error: "must be a positive integer"},
	}, httpErr.Errors)
}

func TestBindAndValidate_BodyBindError(t *testing.T) {
	c := newContext(http.MethodPost, `{"name": `, nil, nil)

	var req model.CreateHouseRequest
	err := BindAndValidate(c, &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "code=")
}

func TestBindAndValidate_ValidationError(t *testing.T) {
	c := newContext(http.MethodDelete, "", []string{"book_id", "character_id"}, []string{"0", "5"})

	var req model.CastPairRequest
	err := BindAndValidate(c, &req)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.Equal(t, []errs.FieldError{{Field: "book_id", Error: "is required"}}, httpErr.Errors)
}

type customRequest struct{}

func (customRequest) Validate() error {
	return CustomValidationErrors{{Field: "name", Message: "must not be blank"}}
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newContext(http.MethodPost, "", nil, nil)

	err := BindAndValidate(c, &customRequest{})

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "must not be blank"}}, httpErr.Errors)
}
