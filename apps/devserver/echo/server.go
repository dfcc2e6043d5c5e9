// Package echoapi is the development stub of the LlamaLearn backend: every
// endpoint the client consumes, served from an in-memory store. It exists
// so the terminal client and the integration tests have a live HTTP target
// without the production backend.
package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/storage/inmem"
)

type (
	Options struct {
		Addr           string
		DisableReqLogs bool
		Store          *inmem.Store
		Logger         core.Logger
		SecretKey      []byte
		TokenTTL       time.Duration // default 30min
		StageDelay     time.Duration // pause between streamed progress records
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 30 * time.Minute
	}
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	jwt := middleware.JWTWithConfig(s.jwtConfig())

	registerUserAPI(s.app, jwt, s.opts)
	registerCourseAPI(s.app, jwt, s.opts)
	registerQuizAPI(s.app, jwt, s.opts)
	registerGenerationAPI(s.app, jwt, s.opts)
}

func (s *server) jwtConfig() middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    s.opts.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the LlamaLearn dev API!")
}
