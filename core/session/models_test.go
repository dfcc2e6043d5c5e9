package session

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/user"
)

func fieldErr(t *testing.T, err error, field string) core.FieldError {
	t.Helper()
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	for _, fld := range vErr.Fields {
		if fld.Field == field {
			return fld
		}
	}
	t.Fatalf("no error reported for field %q in %v", field, vErr.Fields)
	return core.FieldError{}
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		wantField string
	}{
		{name: "ok", creds: Credentials{Email: "awe@test.cd", Password: "x"}},
		{name: "email is cleaned and lowered", creds: Credentials{Email: "  AWE@Test.CD ", Password: "x"}},
		{name: "missing email", creds: Credentials{Password: "x"}, wantField: "email"},
		{name: "malformed email", creds: Credentials{Email: "nope", Password: "x"}, wantField: "email"},
		{name: "missing password", creds: Credentials{Email: "awe@test.cd"}, wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			fieldErr(t, err, tt.wantField)
		})
	}
}

func TestSignup_Validate(t *testing.T) {
	valid := func() Signup {
		return Signup{
			Email:    "awe@test.cd",
			Password: "V3ry-Str0ng!",
			Username: "awe123",
			Role:     user.RoleStudent,
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Signup)
		wantField string
		wantMsg   string
	}{
		{name: "ok", mutate: func(*Signup) {}},
		{name: "professor role", mutate: func(su *Signup) { su.Role = user.RoleProfessor }},
		{name: "unknown role", mutate: func(su *Signup) { su.Role = "admin" }, wantField: "role", wantMsg: "role must be student or professor"},
		{name: "short username", mutate: func(su *Signup) { su.Username = "ab" }, wantField: "username"},
		{name: "short password", mutate: func(su *Signup) { su.Password = "Ab1!" }, wantField: "password", wantMsg: "password must contain at least 8 characters"},
		{name: "password with whitespace", mutate: func(su *Signup) { su.Password = "Ab1! cdef" }, wantField: "password", wantMsg: "password must not contain whitespace"},
		{name: "all numeric password", mutate: func(su *Signup) { su.Password = "12345678" }, wantField: "password", wantMsg: "password cannot be entirely numeric"},
		{name: "no complexity", mutate: func(su *Signup) { su.Password = "abcdefgh1" }, wantField: "password"},
		{name: "similar to email", mutate: func(su *Signup) { su.Password = "Awe@test.cd1" }, wantField: "password", wantMsg: "password cannot be similar to user attributes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			su := valid()
			tt.mutate(&su)
			err := su.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			fld := fieldErr(t, err, tt.wantField)
			if tt.wantMsg != "" && fld.Error != tt.wantMsg {
				t.Errorf("field error = %q, want %q", fld.Error, tt.wantMsg)
			}
		})
	}
}
