// Package apisvc is the REST/stream transport behind the core services:
// one base URL, a bearer token attached per request, and the backend's
// error taxonomy mapped onto Go errors.
package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core"
)

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
)

// TokenSource reads the current bearer token; empty string means
// unauthenticated. Token presence does not guarantee validity, so every
// call still tolerates a rejection.
type TokenSource interface {
	Get() (string, error)
}

type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    core.Logger
}

// NewClient builds a client against conf.APIBaseURL. Ordinary requests get
// no client-side timeout; cancellation comes from the caller's context.
func NewClient(conf *core.Config, tokens TokenSource, log core.Logger) *Client {
	return &Client{
		base:   conf.APIBaseURL,
		http:   &http.Client{},
		tokens: tokens,
		log:    log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building %s %s request", method, path)
	}
	if c.tokens != nil {
		token, err := c.tokens.Get()
		if err != nil {
			return nil, errors.Wrap(err, "reading bearer token")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// post sends a JSON body (nil for an empty body) with a fresh
// Idempotency-Key so a double-submitted form is de-duplicated server side.
func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encoding %s request", path)
		}
		body = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Idempotency-Key", uuid.New().String())
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s response", req.Method, req.URL.Path)
	}
	return nil
}

// apiError maps a rejected response onto the error taxonomy: auth failures
// to sentinels the session layer acts on, validation rejections to a
// core.ValidationError carrying the server's messages verbatim, the rest to
// a wrapped status error.
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var payload struct {
		Detail json.RawMessage `json:"detail"` // string or {field: message}
		Error  string          `json:"error"`
	}
	_ = json.Unmarshal(raw, &payload)

	msg := payload.Error
	var fields []core.FieldError
	if len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			msg = s
		} else {
			var m map[string]string
			if json.Unmarshal(payload.Detail, &m) == nil {
				for fld, text := range m {
					fields = append(fields, core.FieldError{Field: fld, Error: text})
				}
			}
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var cause error
		if msg != "" {
			cause = errors.New(msg)
		} else if len(fields) == 0 {
			cause = errors.New("invalid request")
		}
		return core.NewValidationError(cause, fields...)
	}

	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return errors.Errorf("%s %s: %d %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, msg)
}
