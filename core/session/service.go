package session

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/user"
)

var NowFunc = time.Now // mockable

type (
	// Backend is the slice of the API the session holder needs.
	Backend interface {
		Login(ctx context.Context, email, password string) (Auth, error)
		Register(ctx context.Context, su Signup) (Auth, error)
		Me(ctx context.Context) (user.User, error)
	}

	// TokenStore persists the bearer token between runs; Get returns an
	// empty string when no token is stored.
	TokenStore interface {
		Get() (string, error)
		Set(token string) error
		Clear() error
	}

	// Notifier surfaces a user-visible message.
	Notifier func(msg string)

	// Service holds the current user and coordinates the token store and
	// the backend. It is passed explicitly to the components that need it;
	// there is no ambient session state.
	Service struct {
		backend Backend
		tokens  TokenStore
		log     core.Logger
		notify  Notifier

		usr *user.User
	}
)

func NewService(backend Backend, tokens TokenStore, log core.Logger, notify Notifier) *Service {
	if notify == nil {
		notify = func(string) {}
	}
	return &Service{backend: backend, tokens: tokens, log: log, notify: notify}
}

// Login posts credentials and, on success, stores the returned token and
// user. It never returns an error: transport failures and rejected
// credentials alike are logged, surfaced as "cannot sign in" and reported
// as false.
func (svc *Service) Login(ctx context.Context, email, password string) bool {
	creds := Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		svc.notifyErr(err, "cannot sign in")
		return false
	}

	auth, err := svc.backend.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		svc.log.Warn("login failed", err)
		svc.notify("cannot sign in")
		return false
	}
	return svc.open(auth)
}

// Signup registers a new account; same contract as Login, with the role
// supplied at creation.
func (svc *Service) Signup(ctx context.Context, email, password, username, role string) bool {
	su := Signup{Email: email, Password: password, Username: username, Role: role}
	if err := su.Validate(); err != nil {
		svc.notifyErr(err, "cannot sign up")
		return false
	}

	auth, err := svc.backend.Register(ctx, su)
	if err != nil {
		svc.log.Warn("signup failed", err)
		svc.notifyErr(err, "cannot sign up")
		return false
	}
	return svc.open(auth)
}

// Logout clears the in-memory user and the stored token. No network call.
func (svc *Service) Logout() {
	svc.usr = nil
	if err := svc.tokens.Clear(); err != nil {
		svc.log.Error("clearing stored token", err)
	}
}

// Restore validates a previously stored token against the backend and, on
// success, repopulates the user. On any failure (no token, expired token,
// rejection, transport error) it clears the stored token and leaves the
// session unauthenticated without returning an error. Callers must not act
// on the session before Restore returns.
func (svc *Service) Restore(ctx context.Context) {
	token, err := svc.tokens.Get()
	if err != nil {
		svc.log.Error("reading stored token", err)
		return
	}
	if token == "" {
		return
	}

	// A token past its expiry claim cannot be valid; skip the round trip.
	// Anything else is still for the backend to judge.
	if expired, ok := tokenExpired(token); ok && expired {
		svc.log.Debug("stored token has expired")
		svc.drop()
		return
	}

	usr, err := svc.backend.Me(ctx)
	if err != nil {
		svc.log.Warn("session restore rejected", err)
		svc.drop()
		return
	}
	svc.usr = &usr
}

// User returns the current user, if authenticated.
func (svc *Service) User() (user.User, bool) {
	if svc.usr == nil {
		return user.User{}, false
	}
	return *svc.usr, true
}

func (svc *Service) Authenticated() bool {
	return svc.usr != nil
}

func (svc *Service) open(auth Auth) bool {
	if err := svc.tokens.Set(auth.Token); err != nil {
		svc.log.Error("storing token", err)
		svc.notify("cannot sign in")
		return false
	}
	usr := auth.User
	svc.usr = &usr
	return true
}

func (svc *Service) drop() {
	svc.usr = nil
	if err := svc.tokens.Clear(); err != nil {
		svc.log.Error("clearing stored token", err)
	}
}

func (svc *Service) notifyErr(err error, fallback string) {
	if vErr, ok := core.AsValidationError(err); ok {
		if len(vErr.Fields) > 0 {
			for _, fld := range vErr.Fields {
				svc.notify(fld.Field + ": " + fld.Error)
			}
			return
		}
		if msg := vErr.Error(); msg != "" {
			svc.notify(msg)
			return
		}
	}
	svc.notify(fallback)
}

// tokenExpired peeks at the expiry claim without verifying the signature.
// ok is false when the token does not parse as a JWT at all.
func tokenExpired(token string) (expired, ok bool) {
	claims := new(jwt.StandardClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false, false
	}
	if claims.ExpiresAt == 0 {
		return false, true
	}
	return NowFunc().Unix() >= claims.ExpiresAt, true
}
