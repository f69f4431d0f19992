package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/coreybb/userdir/datastore"
	"github.com/coreybb/userdir/models"
	"github.com/coreybb/userdir/validation"
	"github.com/coreybb/userdir/webutil"
	"github.com/go-chi/chi/v5"
)

const msgUserNotFound = "User not found"

type UserHandler struct {
	Store datastore.UserStore
}

func NewUserHandler(store datastore.UserStore) *UserHandler {
	return &UserHandler{Store: store}
}

// HandleListUsers returns every user ordered by id. No pagination; the
// full directory comes back in one response.
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Store.List(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	id, ok := userIDParam(r)
	if !ok {
		return webutil.ErrNotFound(msgUserNotFound)
	}

	user, err := h.Store.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return webutil.ErrNotFound(msgUserNotFound)
		}
		return fmt.Errorf("failed to retrieve user %d: %w", id, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	var req models.CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return err
	}

	req, fieldErrs, err := validation.ValidateCreate(r.Context(), h.Store, req)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if fieldErrs.Any() {
		return validationError(fieldErrs)
	}

	hash, err := webutil.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := h.Store.Create(r.Context(), &user); err != nil {
		// The pre-check above is advisory; the store's unique index is
		// what holds under concurrent creates.
		if errors.Is(err, datastore.ErrDuplicateEmail) {
			return duplicateEmailError()
		}
		return fmt.Errorf("failed to create user %s: %w", req.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, user)
	return nil
}

func (h *UserHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) error {
	id, ok := userIDParam(r)
	if !ok {
		return webutil.ErrNotFound(msgUserNotFound)
	}

	// Resolve the target before validating, so an unknown id is a 404
	// even when the payload is also invalid.
	if _, err := h.Store.Find(r.Context(), id); err != nil {
		if errors.Is(err, datastore.ErrUserNotFound) {
			return webutil.ErrNotFound(msgUserNotFound)
		}
		return fmt.Errorf("failed to retrieve user %d: %w", id, err)
	}

	var req models.UpdateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return err
	}

	fields, fieldErrs, err := validation.ValidateUpdate(r.Context(), h.Store, id, req)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if fieldErrs.Any() {
		return validationError(fieldErrs)
	}

	user, err := h.Store.Update(r.Context(), id, datastore.UserChanges(fields))
	if err != nil {
		switch {
		case errors.Is(err, datastore.ErrUserNotFound):
			return webutil.ErrNotFound(msgUserNotFound)
		case errors.Is(err, datastore.ErrDuplicateEmail):
			return duplicateEmailError()
		}
		return fmt.Errorf("failed to update user %d: %w", id, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}

// HandleDeleteUser removes a user. Success is a bare 204: the upstream
// contract allowed either a 204 body or none, and strict HTTP forbids
// the body.
func (h *UserHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) error {
	id, ok := userIDParam(r)
	if !ok {
		return webutil.ErrNotFound(msgUserNotFound)
	}

	deleted, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	if !deleted {
		return webutil.ErrNotFound(msgUserNotFound)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// userIDParam parses the {id} path parameter. A non-numeric id is
// reported as not-ok and treated as "not found" by callers.
func userIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// decodeJSONBody decodes a request body, mapping malformed JSON and
// non-JSON content types to a 400. An empty body decodes as an empty
// payload, which makes an update with no fields a valid no-op.
func decodeJSONBody(r *http.Request, dst any) error {
	defer r.Body.Close()

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return webutil.ErrBadRequest("Content-Type must be application/json")
		}
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return webutil.ErrBadRequestWrap("Invalid request payload", err)
	}
	return nil
}

func validationError(fieldErrs validation.Errors) *webutil.ValidationError {
	return &webutil.ValidationError{
		Message: fieldErrs.Summary(),
		Fields:  fieldErrs,
	}
}

func duplicateEmailError() *webutil.ValidationError {
	errs := validation.Errors{}
	errs.Add(validation.FieldEmail, validation.MsgEmailTaken)
	return validationError(errs)
}
