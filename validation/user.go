package validation

import (
	"context"
	"regexp"
	"strings"

	"github.com/coreybb/userdir/models"
)

// Input field names, matching the wire contract.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPassword  = "password"
)

// MsgEmailTaken is also raised by handlers when the store reports a
// duplicate at mutation time.
const MsgEmailTaken = "The email has already been taken."

var userFieldOrder = []string{FieldFirstName, FieldLastName, FieldEmail, FieldPassword}

// The rule table. Uniqueness is not a structural rule; it consults the
// store through EmailDirectory and joins the same error set.
var (
	firstNameRules = []Rule{Required{}, MaxLen{255}}
	lastNameRules  = []Rule{Required{}, MaxLen{255}}
	emailRules     = []Rule{Required{}, EmailShape{}, MaxLen{255}}
	passwordRules  = []Rule{Required{}, MinLen{8}}
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// EmailDirectory is the slice of the store the validator needs for the
// advisory uniqueness pre-check.
type EmailDirectory interface {
	ExistsEmail(ctx context.Context, email string, exceptID int64) (bool, error)
}

// ValidateCreate checks a create payload. It returns the payload with
// surrounding whitespace trimmed, the per-field failures, and a hard
// error only when the uniqueness lookup itself fails.
func ValidateCreate(ctx context.Context, dir EmailDirectory, req models.CreateUserRequest) (models.CreateUserRequest, Errors, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	errs := Errors{}
	applyRules(errs, FieldFirstName, "first name", req.FirstName, firstNameRules)
	applyRules(errs, FieldLastName, "last name", req.LastName, lastNameRules)
	applyRules(errs, FieldEmail, "email", req.Email, emailRules)
	applyRules(errs, FieldPassword, "password", req.Password, passwordRules)

	if req.Email != "" && len(errs[FieldEmail]) == 0 {
		taken, err := dir.ExistsEmail(ctx, req.Email, 0)
		if err != nil {
			return req, nil, err
		}
		if taken {
			errs.Add(FieldEmail, MsgEmailTaken)
		}
	}
	return req, errs, nil
}

// ValidateUpdate checks an update payload for the user with the given
// id. Only fields present in the payload are validated; a present field
// must still pass the create-mode rules. The password field is ignored.
func ValidateUpdate(ctx context.Context, dir EmailDirectory, id int64, req models.UpdateUserRequest) (UpdateFields, Errors, error) {
	var fields UpdateFields
	errs := Errors{}

	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		applyRules(errs, FieldFirstName, "first name", v, firstNameRules)
		fields.FirstName = &v
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		applyRules(errs, FieldLastName, "last name", v, lastNameRules)
		fields.LastName = &v
	}
	if req.Email != nil {
		v := strings.TrimSpace(*req.Email)
		applyRules(errs, FieldEmail, "email", v, emailRules)
		if v != "" && len(errs[FieldEmail]) == 0 {
			taken, err := dir.ExistsEmail(ctx, v, id)
			if err != nil {
				return fields, nil, err
			}
			if taken {
				errs.Add(FieldEmail, MsgEmailTaken)
			}
		}
		fields.Email = &v
	}
	return fields, errs, nil
}

// UpdateFields is the normalized subset of attributes an update may
// change. Nil means the attribute was absent from the payload.
type UpdateFields struct {
	FirstName *string
	LastName  *string
	Email     *string
}
