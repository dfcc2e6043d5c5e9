package apisvc

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/generation"
)

// CreateCourse posts the multipart submission (title, description, zipped
// material) and hands back a decoder over the live response body. The
// response is long-lived: the backend delivers one progress record per
// generation milestone until all three stages complete. The framing is
// picked from the response content type (SSE vs newline-delimited JSON).
//
// The caller owns the closer; closing it cancels in-flight reads, which is
// how a torn-down consumer stops a superseded stream.
func (c *Client) CreateCourse(ctx context.Context, nc course.NewCourse) (generation.Decoder, io.Closer, error) {
	if err := nc.Validate(); err != nil {
		return nil, nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := func() error {
			if err := mw.WriteField("title", nc.Title); err != nil {
				return err
			}
			if err := mw.WriteField("description", nc.Description); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("content", nc.Filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, nc.Archive); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/courses/create", pr)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Idempotency-Key", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, errors.Wrap(err, "submitting course creation")
	}
	if resp.StatusCode >= 400 {
		//goland:noinspection GoUnhandledErrorResult
		defer resp.Body.Close()
		return nil, nil, apiError(resp)
	}

	dec := generation.NewDecoder(resp.Body)
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		dec = generation.NewEventStreamDecoder(resp.Body)
	}
	return dec, resp.Body, nil
}
