package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/session"
	"github.com/llamalearn/llamalearn/core/user"
)

type userApi struct {
	opts *Options
}

func registerUserAPI(e *echo.Echo, jwt echo.MiddlewareFunc, opts *Options) {
	api := userApi{opts: opts}

	// un-authed endpoints
	e.POST("/token", api.login)
	e.POST("/register", api.register)

	// authed endpoints
	e.GET("/users/me", api.me, jwt)
}

// Handlers

// login takes the OAuth2-style form: the username field carries the email.
func (api *userApi) login(ctx echo.Context) error {
	email := core.CleanString(ctx.FormValue("username"), true /* lower */)
	password := ctx.FormValue("password")
	if email == "" || password == "" {
		return errAuthenticationFailed
	}

	usr, err := authenticate(api.opts.Store, email, password)
	if err != nil {
		return err
	}
	return api.respondAuth(ctx, http.StatusOK, usr)
}

func (api *userApi) register(ctx echo.Context) error {
	var data session.Signup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Signup")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	usr, err := api.opts.Store.CreateUser(data.Email, data.Username, data.Role, data.Password)
	if err != nil {
		return err
	}
	return api.respondAuth(ctx, http.StatusCreated, usr)
}

func (api *userApi) me(ctx echo.Context) error {
	usr, err := contextUser(ctx, api.opts.Store)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) respondAuth(ctx echo.Context, code int, usr user.User) error {
	claims := getUserClaims(usr, api.opts.TokenTTL)
	token, err := generateToken(claims, api.opts.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(code, echo.Map{
		"access_token": token,
		"token_type":   "bearer",
		"user":         usr,
	})
}
