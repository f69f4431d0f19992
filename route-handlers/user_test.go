package routehandlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coreybb/userdir/datastore"
	rh "github.com/coreybb/userdir/route-handlers"
	"github.com/coreybb/userdir/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	h := rh.NewUserHandler(datastore.NewMemoryUserStore())

	r := chi.NewRouter()
	r.Get("/users", webutil.MakeHandler(h.HandleListUsers))
	r.Post("/users", webutil.MakeHandler(h.HandleCreateUser))
	r.Get("/users/{id}", webutil.MakeHandler(h.HandleGetUser))
	r.Put("/users/{id}", webutil.MakeHandler(h.HandleUpdateUser))
	r.Delete("/users/{id}", webutil.MakeHandler(h.HandleDeleteUser))
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const adaBody = `{"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io","password":"password"}`

func TestCreateUser(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/users", adaBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestListUsers(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	doJSON(t, router, http.MethodPost, "/users", adaBody)
	rec = doJSON(t, router, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io"}]`, rec.Body.String())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodPost, "/users",
		`{"first_name":"B","last_name":"B","email":"ada@x.io","password":"password"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Message)
	assert.NotEmpty(t, body.Errors["email"])
}

func TestCreateUserValidationFailureListsEveryField(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/users", `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The first name field is required. (and 3 more errors)", body.Message)
	for _, field := range []string{"first_name", "last_name", "email", "password"} {
		assert.NotEmpty(t, body.Errors[field], "field %s", field)
	}
}

func TestCreateUserMalformedJSON(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPost, "/users", `{"first_name": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserWrongContentType(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(adaBody))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io"}`, rec.Body.String())
}

func TestGetUserNotFound(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/users/999", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())

	// A non-numeric id is treated the same way.
	rec = doJSON(t, router, http.MethodGet, "/users/abc", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestUpdateUserPartial(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodPut, "/users/1", `{"first_name":"Augusta"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"Augusta","last_name":"Lovelace","email":"ada@x.io"}`, rec.Body.String())
}

func TestUpdateUserEmptyBodyIsNoOp(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodPut, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io"}`, rec.Body.String())
}

func TestUpdateUserNotFound(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodPut, "/users/999", `{"first_name":"Augusta"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestUpdateUserValidationFailure(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodPut, "/users/1", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Errors["email"])
}

func TestUpdateUserEmailCollision(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)
	doJSON(t, router, http.MethodPost, "/users",
		`{"first_name":"Grace","last_name":"Hopper","email":"grace@x.io","password":"password"}`)

	rec := doJSON(t, router, http.MethodPut, "/users/2", `{"email":"ada@x.io"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Keeping your own email is not a collision.
	rec = doJSON(t, router, http.MethodPut, "/users/2", `{"email":"grace@x.io"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateUserIgnoresPassword(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodPut, "/users/1", `{"password":"x"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"first_name":"Ada","last_name":"Lovelace","email":"ada@x.io"}`, rec.Body.String())
}

func TestDeleteUser(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)

	rec := doJSON(t, router, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/users", "")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	// Destroy is not idempotent: repeats are 404s.
	rec = doJSON(t, router, http.MethodDelete, "/users/1", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
}

func TestCreateUserIDsStrictlyIncrease(t *testing.T) {
	router := newTestRouter()
	doJSON(t, router, http.MethodPost, "/users", adaBody)
	doJSON(t, router, http.MethodPost, "/users",
		`{"first_name":"Grace","last_name":"Hopper","email":"grace@x.io","password":"password"}`)
	doJSON(t, router, http.MethodDelete, "/users/2", "")

	rec := doJSON(t, router, http.MethodPost, "/users",
		`{"first_name":"Edith","last_name":"Clarke","email":"edith@x.io","password":"password"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(3), created.ID)
}
