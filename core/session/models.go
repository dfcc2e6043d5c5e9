package session

import (
	"github.com/go-playground/validator/v10"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/user"
)

// Auth is the backend's response to a successful login or registration.
type Auth struct {
	Token string    `json:"access_token"`
	User  user.User `json:"user"`
}

// Credentials carries a login form submission.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return translate(core.Validate.Struct(c))
}

// Signup contains information needed to create a new account.
type Signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Role     string `json:"role" validate:"required,knownrole"`
}

func (s *Signup) Validate() error {
	s.Email = core.CleanString(s.Email, true /* lower */)
	s.Username = core.CleanString(s.Username)
	s.Role = core.CleanString(s.Role, true /* lower */)
	return translate(core.Validate.Struct(s))
}

// translate converts validator errors into a core.ValidationError so the
// caller can surface per-field messages.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if vErrs, ok := err.(validator.ValidationErrors); ok {
		return core.NewValidationError(err, core.TranslateFieldErrors(vErrs)...)
	}
	return err
}
