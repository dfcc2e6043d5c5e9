package tests

import (
	"context"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	echoapi "github.com/llamalearn/llamalearn/apps/devserver/echo"
	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/services/api"
	"github.com/llamalearn/llamalearn/services/logger"
	"github.com/llamalearn/llamalearn/storage/inmem"
	"github.com/llamalearn/llamalearn/storage/token"
)

var (
	store *inmem.Store
	app   echoapi.Server
	srv   *httptest.Server
)

func TestMain(m *testing.M) {
	quiet := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))

	// set up the stub backend with the demo seed
	store = inmem.Open()
	inmem.Seed(store)
	app = echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Store:          store,
		Logger:         quiet,
		SecretKey:      []byte("secret"),
		TokenTTL:       10 * time.Minute,
	})
	srv = httptest.NewServer(app)

	// run tests
	code := m.Run()

	srv.Close()
	os.Exit(code)
}

func newClient(tokens apisvc.TokenSource) *apisvc.Client {
	quiet := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	return apisvc.NewClient(&core.Config{APIBaseURL: srv.URL}, tokens, quiet)
}

// signIn logs a seeded account in through the real transport and returns a
// client that carries its bearer token.
func signIn(t *testing.T, email, pwd string) *apisvc.Client {
	t.Helper()
	tokens := tokenstore.NewMemStore()
	c := newClient(tokens)
	auth, err := c.Login(context.Background(), email, pwd)
	if err != nil {
		t.Fatalf("signIn(%s): %v", email, err)
	}
	if err := tokens.Set(auth.Token); err != nil {
		t.Fatalf("signIn(%s): storing token: %v", email, err)
	}
	return c
}

func asStudent(t *testing.T) *apisvc.Client {
	return signIn(t, "student@llamalearn.test", "Stud3nt-Demo!")
}

func asProfessor(t *testing.T) *apisvc.Client {
	return signIn(t, "prof@llamalearn.test", "Pr0f-Demo!")
}

func seededCourseID(t *testing.T) string {
	t.Helper()
	courses := store.Courses()
	if len(courses) == 0 {
		t.Fatal("seed course missing")
	}
	for _, crs := range courses {
		if crs.Title == "Linear Algebra Foundations" {
			return crs.ID
		}
	}
	return courses[0].ID
}
