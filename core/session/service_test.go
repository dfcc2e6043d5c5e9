package session

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core/user"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeBackend struct {
	auth    Auth
	err     error
	meCalls int
}

func (b *fakeBackend) Login(context.Context, string, string) (Auth, error) {
	return b.auth, b.err
}

func (b *fakeBackend) Register(context.Context, Signup) (Auth, error) {
	return b.auth, b.err
}

func (b *fakeBackend) Me(context.Context) (user.User, error) {
	b.meCalls++
	return b.auth.User, b.err
}

// memTokens is an in-process TokenStore for tests.
type memTokens struct {
	token string
}

func newMemTokens() *memTokens { return &memTokens{} }

func (m *memTokens) Get() (string, error)    { return m.token, nil }
func (m *memTokens) Set(token string) error  { m.token = token; return nil }
func (m *memTokens) Clear() error            { m.token = ""; return nil }

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.StandardClaims{}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = expiresAt.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("signedToken(): %v", err)
	}
	return token
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	student := user.User{ID: "u-1", Username: "awe", Email: "awe@test.cd", Role: user.RoleStudent}

	t.Run("success stores the token and user", func(t *testing.T) {
		backend := &fakeBackend{auth: Auth{Token: "tok", User: student}}
		tokens := newMemTokens()
		svc := NewService(backend, tokens, nopLogger{}, nil)

		if !svc.Login(ctx, "awe@test.cd", "S3cret-pwd!") {
			t.Fatal("Login() = false, want true")
		}
		if !svc.Authenticated() {
			t.Error("Authenticated() = false after login")
		}
		usr, ok := svc.User()
		if !ok || usr.ID != student.ID {
			t.Errorf("User() = %+v, %v", usr, ok)
		}
		if stored, _ := tokens.Get(); stored != "tok" {
			t.Errorf("stored token = %q, want tok", stored)
		}
	})

	t.Run("rejected credentials report false, never an error", func(t *testing.T) {
		var msgs []string
		backend := &fakeBackend{err: errors.New("401")}
		svc := NewService(backend, newMemTokens(), nopLogger{}, func(msg string) { msgs = append(msgs, msg) })

		if svc.Login(ctx, "awe@test.cd", "S3cret-pwd!") {
			t.Fatal("Login() = true, want false")
		}
		if svc.Authenticated() {
			t.Error("Authenticated() = true after a failed login")
		}
		if len(msgs) == 0 || msgs[0] != "cannot sign in" {
			t.Errorf("notifications = %v, want [cannot sign in]", msgs)
		}
	})

	t.Run("malformed email fails before any network call", func(t *testing.T) {
		backend := &fakeBackend{auth: Auth{Token: "tok", User: student}}
		svc := NewService(backend, newMemTokens(), nopLogger{}, nil)

		if svc.Login(ctx, "not-an-email", "S3cret-pwd!") {
			t.Fatal("Login() = true for a malformed email")
		}
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{auth: Auth{Token: "tok", User: user.User{ID: "u-1", Role: user.RoleStudent}}}
	tokens := newMemTokens()
	svc := NewService(backend, tokens, nopLogger{}, nil)

	if !svc.Login(ctx, "awe@test.cd", "S3cret-pwd!") {
		t.Fatal("Login() failed")
	}
	svc.Logout()

	if svc.Authenticated() {
		t.Error("Authenticated() = true after logout")
	}
	if stored, _ := tokens.Get(); stored != "" {
		t.Errorf("stored token = %q, want empty", stored)
	}
}

func TestService_Restore(t *testing.T) {
	ctx := context.Background()
	student := user.User{ID: "u-1", Username: "awe", Role: user.RoleStudent}

	t.Run("no stored token leaves the session unauthenticated", func(t *testing.T) {
		backend := &fakeBackend{auth: Auth{User: student}}
		svc := NewService(backend, newMemTokens(), nopLogger{}, nil)

		svc.Restore(ctx)
		if svc.Authenticated() {
			t.Error("Authenticated() = true with no stored token")
		}
		if backend.meCalls != 0 {
			t.Errorf("Me() called %d times, want 0", backend.meCalls)
		}
	})

	t.Run("valid token repopulates the user", func(t *testing.T) {
		backend := &fakeBackend{auth: Auth{User: student}}
		tokens := newMemTokens()
		_ = tokens.Set(signedToken(t, time.Now().Add(time.Hour)))
		svc := NewService(backend, tokens, nopLogger{}, nil)

		svc.Restore(ctx)
		if !svc.Authenticated() {
			t.Fatal("Authenticated() = false after restoring a valid token")
		}
		if usr, _ := svc.User(); usr.ID != student.ID {
			t.Errorf("User() = %+v", usr)
		}
	})

	t.Run("expired token is dropped without a round trip", func(t *testing.T) {
		backend := &fakeBackend{auth: Auth{User: student}}
		tokens := newMemTokens()
		_ = tokens.Set(signedToken(t, time.Now().Add(-time.Hour)))
		svc := NewService(backend, tokens, nopLogger{}, nil)

		svc.Restore(ctx)
		if svc.Authenticated() {
			t.Error("Authenticated() = true with an expired token")
		}
		if backend.meCalls != 0 {
			t.Errorf("Me() called %d times, want 0", backend.meCalls)
		}
		if stored, _ := tokens.Get(); stored != "" {
			t.Errorf("expired token still stored: %q", stored)
		}
	})

	t.Run("backend rejection clears the stored token", func(t *testing.T) {
		backend := &fakeBackend{err: errors.New("401")}
		tokens := newMemTokens()
		_ = tokens.Set(signedToken(t, time.Now().Add(time.Hour)))
		svc := NewService(backend, tokens, nopLogger{}, nil)

		svc.Restore(ctx)
		if svc.Authenticated() {
			t.Error("Authenticated() = true after a rejected restore")
		}
		if stored, _ := tokens.Get(); stored != "" {
			t.Errorf("rejected token still stored: %q", stored)
		}
	})
}

func Test_tokenExpired(t *testing.T) {
	tests := []struct {
		name        string
		token       string
		wantExpired bool
		wantOK      bool
	}{
		{name: "not a jwt", token: "opaque-session-token", wantOK: false},
		{name: "no expiry claim", token: signedToken(t, time.Time{}), wantOK: true},
		{name: "future expiry", token: signedToken(t, time.Now().Add(time.Hour)), wantOK: true},
		{name: "past expiry", token: signedToken(t, time.Now().Add(-time.Hour)), wantExpired: true, wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expired, ok := tokenExpired(tt.token)
			if expired != tt.wantExpired || ok != tt.wantOK {
				t.Errorf("tokenExpired() = %v, %v; want %v, %v", expired, ok, tt.wantExpired, tt.wantOK)
			}
		})
	}
}
