package datastore

import (
	"context"
	"errors"

	"github.com/coreybb/userdir/models"
)

var (
	// ErrUserNotFound is returned when an id does not resolve to a live record.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when a write would violate the unique
	// email index. The pre-check in the validation layer is advisory only;
	// stores must enforce uniqueness at the point of mutation.
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserChanges carries a partial update. Nil fields leave the stored
// attribute unchanged.
type UserChanges struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserStore is the persistence boundary for users. It owns identity
// allocation (monotonic, never reused) and email uniqueness.
type UserStore interface {
	// List returns every user ordered by ascending id. There is no
	// pagination; callers should treat very large directories as an
	// operational limit.
	List(ctx context.Context) ([]models.User, error)

	// Find returns the user with the given id, or ErrUserNotFound.
	Find(ctx context.Context, id int64) (*models.User, error)

	// ExistsEmail reports whether any user other than exceptID holds the
	// given email. Pass exceptID 0 to consider all users. Comparison is
	// byte-exact; no case normalization is performed.
	ExistsEmail(ctx context.Context, email string, exceptID int64) (bool, error)

	// Create persists a new user, assigning an id strictly greater than
	// any previously issued. Returns ErrDuplicateEmail on a collision.
	Create(ctx context.Context, user *models.User) error

	// Update applies the non-nil fields of changes to the user with the
	// given id and returns the updated record. Returns ErrUserNotFound
	// or ErrDuplicateEmail as appropriate.
	Update(ctx context.Context, id int64, changes UserChanges) (*models.User, error)

	// Delete removes the user with the given id, reporting whether a
	// record was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}
