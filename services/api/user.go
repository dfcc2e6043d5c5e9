package apisvc

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/llamalearn/llamalearn/core/session"
	"github.com/llamalearn/llamalearn/core/user"
)

var _ session.Backend = (*Client)(nil)

// Login posts form-encoded credentials to the token endpoint. The form's
// username field carries the email; that is what the backend expects.
func (c *Client) Login(ctx context.Context, email, password string) (session.Auth, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, "/token", strings.NewReader(form.Encode()))
	if err != nil {
		return session.Auth{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var auth session.Auth
	if err := c.do(req, &auth); err != nil {
		return session.Auth{}, err
	}
	return auth, nil
}

func (c *Client) Register(ctx context.Context, su session.Signup) (session.Auth, error) {
	var auth session.Auth
	if err := c.post(ctx, "/register", su, &auth); err != nil {
		return session.Auth{}, err
	}
	return auth, nil
}

// Me validates the stored token and returns the current user.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	if err := c.get(ctx, "/users/me", &usr); err != nil {
		return user.User{}, err
	}
	return usr, nil
}
