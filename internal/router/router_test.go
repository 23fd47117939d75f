package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/castdb/internal/handler"
	"github.com/deppfellow/castdb/internal/repository"
	"github.com/deppfellow/castdb/internal/router"
	"github.com/deppfellow/castdb/internal/server"
	"github.com/deppfellow/castdb/internal/service"
	"github.com/deppfellow/castdb/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Status int    `json:"status"`
	Errors []struct {
		Field string `json:"field"`
		Error string `json:"error"`
	} `json:"errors"`
}

func newRouter(t *testing.T, s *server.Server) *echo.Echo {
	t.Helper()

	services, err := service.NewServices(s, repository.NewRepositories())
	require.NoError(t, err)
	return router.NewRouter(s, handler.NewHandlers(s, services))
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return newRouter(t, testutil.NewSQLiteServer(t))
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()

	var body apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const (
	bookBody      = `{"name": "A Game of Thrones", "order": 1, "release_date": "1996-08-01"}`
	characterBody = `{"name": "Arya Stark", "gender": "female", "species": "human", "is_alive": true}`
)

func TestCastEndToEnd(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/book", bookBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id": 1, "name": "A Game of Thrones", "order": 1, "release_date": "1996-08-01"}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/character", characterBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id": 1, "name": "Arya Stark", "gender": "female", "species": "human", "is_alive": true, "house_id": null}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/cast/1/1", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"cast member": {"id": 1, "character_id": 1, "book_id": 1}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/cast/book/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cast": [{"id": 1, "character_id": 1, "book_id": 1}]}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/cast/character/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"books": [{"id": 1, "name": "A Game of Thrones", "order": 1, "release_date": "1996-08-01"}]}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/cast/1/1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "CAST_ALREADY_EXISTS", body.Code)
	assert.Equal(t, http.StatusBadRequest, body.Status)

	rec = do(t, e, http.MethodDelete, "/cast/1/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"cast member deleted successfully"`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/cast/book/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodPost, "/cast/1/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Character not found", decodeError(t, rec).Error)
}

func TestCharacterEndpoints(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/characters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/character", characterBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodPost, "/character", characterBody)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "CHARACTER_ALREADY_EXISTS", body.Code)
	assert.Equal(t, "A Character with this Name already exists", body.Error)

	rec = do(t, e, http.MethodPut, "/character/1",
		`{"name": "Arya", "gender": "female", "species": "human", "is_alive": false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"character": {"id": 1, "name": "Arya", "gender": "female", "species": "human", "is_alive": false, "house_id": null}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/character/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": 1, "name": "Arya", "gender": "female", "species": "human", "is_alive": false, "house_id": null}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/character/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"character deleted successfully"`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/character/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	body = decodeError(t, rec)
	assert.Equal(t, "Character not found", body.Error)
	assert.Equal(t, "NOT_FOUND", body.Code)

	rec = do(t, e, http.MethodPut, "/character/1", characterBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, e, http.MethodDelete, "/character/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookUpdateWithoutOrder(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/book", bookBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodPut, "/book/1", `{"name": "A Game of Thrones", "release_date": "1996-08-01"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "BOOK_REQUIRED", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "order", body.Errors[0].Field)

	rec = do(t, e, http.MethodGet, "/book/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": 1, "name": "A Game of Thrones", "order": 1, "release_date": "1996-08-01"}`, rec.Body.String())

	rec = do(t, e, http.MethodPut, "/book/1", `{"name": "A Game of Thrones", "order": 2, "release_date": "1996-08-06"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"book": {"id": 1, "name": "A Game of Thrones", "order": 2, "release_date": "1996-08-06"}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/books", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id": 1, "name": "A Game of Thrones", "order": 2, "release_date": "1996-08-06"}]`, rec.Body.String())
}

func TestUserEndpoints(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg": "Hello, this is your GET /user response "}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/user", `{"email": "arya@winterfell.org", "password": "needle", "is_active": true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id": 1, "email": "arya@winterfell.org"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	rec = do(t, e, http.MethodPut, "/user/1", `{"email": "arya@braavos.org", "is_active": false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user": {"id": 1, "email": "arya@braavos.org"}}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id": 1, "email": "arya@braavos.org"}]`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/user/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"user deleted successfully"`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/user/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHouseEndpoints(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/house", `{"name": "Stark"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id": 1, "name": "Stark"}`, rec.Body.String())

	rec = do(t, e, http.MethodPost, "/character",
		`{"name": "Arya Stark", "gender": "female", "species": "human", "is_alive": true, "house_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, e, http.MethodGet, "/house/1/characters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"characters": [{"id": 1, "name": "Arya Stark", "gender": "female", "species": "human", "is_alive": true, "house_id": 1}]}`, rec.Body.String())

	rec = do(t, e, http.MethodPut, "/house/1", `{"name": "Winterfell"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"house": {"id": 1, "name": "Winterfell"}}`, rec.Body.String())

	rec = do(t, e, http.MethodDelete, "/house/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"house deleted successfully"`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/character/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id": 1, "name": "Arya Stark", "gender": "female", "species": "human", "is_alive": true, "house_id": null}`, rec.Body.String())

	rec = do(t, e, http.MethodGet, "/houses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBadRequests(t *testing.T) {
	e := newTestRouter(t)

	t.Run("non numeric id", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/character/abc", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, rec).Code)
	})

	t.Run("non numeric cast pair", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/cast/book/1", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeError(t, rec)
		assert.NotContains(t, body.Error, "strconv")
		require.Len(t, body.Errors, 1)
		assert.Equal(t, "book_id", body.Errors[0].Field)
		assert.Equal(t, "must be a positive integer", body.Errors[0].Error)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/book", `{"name": `)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Status)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := do(t, e, http.MethodPost, "/book", `{"name": "A", "order": 1, "release_date": "01/08/1996"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero id", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/book/0", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		require.NotEmpty(t, body.Errors)
		assert.Equal(t, "id", body.Errors[0].Field)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := do(t, e, http.MethodGet, "/dragons", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Route not found", decodeError(t, rec).Error)
	})
}

func TestTrailingSlash(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/books/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
		Checks map[string]struct {
			Status string `json:"status"`
			Driver string `json:"driver"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Checks["database"].Status)
	assert.Equal(t, "sqlite", health.Checks["database"].Driver)

	rec = do(t, e, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var sitemap handler.SitemapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sitemap))
	assert.Contains(t, sitemap.Endpoints, handler.Endpoint{Method: http.MethodPost, Path: "/cast/:book_id/:character_id"})
	assert.Contains(t, sitemap.Endpoints, handler.Endpoint{Method: http.MethodGet, Path: "/status"})
}

func TestStatusUnhealthy(t *testing.T) {
	s := testutil.NewSQLiteServer(t)
	e := newRouter(t, s)

	require.NoError(t, s.DB.Close())

	rec := do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
}

func TestRequestID(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = do(t, e, http.MethodGet, "/user", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRateLimit(t *testing.T) {
	s := testutil.NewSQLiteServer(t)
	s.Config.Server.RateLimit = 1
	e := newRouter(t, s)

	rec := do(t, e, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, e, http.MethodGet, "/user", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, http.StatusTooManyRequests, decodeError(t, rec).Status)

	rec = do(t, e, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestColumnLimits(t *testing.T) {
	e := newTestRouter(t)

	rec := do(t, e, http.MethodPost, "/character",
		`{"name": "Hodor", "gender": "`+strings.Repeat("M", 45)+`", "species": "human", "is_alive": true}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
	body := decodeError(t, rec)
	assert.Equal(t, "CHARACTER_INVALID", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "gender", body.Errors[0].Field)

	rec = do(t, e, http.MethodPost, "/book", `{"name": "A Dream of Spring", "order": 99999999999, "release_date": "2030-01-01"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
	assert.Equal(t, "BOOK_INVALID", decodeError(t, rec).Code)

	rec = do(t, e, http.MethodPost, "/house", `{"name": "`+strings.Repeat("H", 51)+`"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
	assert.Equal(t, "HOUSE_INVALID", decodeError(t, rec).Code)

	rec = do(t, e, http.MethodPost, "/character", `{"name": "Jon Snow", "gender": "male", "species": "human", "is_alive": true, "house_id": 42}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code, rec.Body.String())
	body = decodeError(t, rec)
	assert.Equal(t, "CHARACTER_NOT_FOUND", body.Code)
	assert.Equal(t, "The referenced House does not exist", body.Error)

	rec = do(t, e, http.MethodGet, "/characters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
