package main

import (
	"archive/zip"
	"bufio"
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	echoapi "github.com/llamalearn/llamalearn/apps/devserver/echo"
	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/core/session"
	"github.com/llamalearn/llamalearn/services/api"
	"github.com/llamalearn/llamalearn/services/logger"
	"github.com/llamalearn/llamalearn/storage/inmem"
	"github.com/llamalearn/llamalearn/storage/token"
)

func quietLogger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
}

// setup runs a seeded stub backend and builds a CLI wired to it. The input
// string scripts the interactive prompts.
func setup(t *testing.T, input string) (*commandLine, *bytes.Buffer, *inmem.Store) {
	t.Helper()

	store := inmem.Open()
	inmem.Seed(store)
	app := echoapi.NewServer(&echoapi.Options{
		DisableReqLogs: true,
		Store:          store,
		Logger:         quietLogger(),
		SecretKey:      []byte("secret"),
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemStore()
	backend := apisvc.NewClient(&core.Config{APIBaseURL: srv.URL}, tokens, quietLogger())

	out := new(bytes.Buffer)
	cli := &commandLine{
		sessions: session.NewService(backend, tokens, quietLogger(), nil),
		courses:  course.NewService(backend, quietLogger()),
		quizzes:  quiz.NewService(backend, quietLogger()),
		backend:  backend,
		log:      quietLogger(),
		out:      out,
		in:       bufio.NewReader(strings.NewReader(input)),
	}
	return cli, out, store
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
}

func seededCourseID(t *testing.T, store *inmem.Store) string {
	t.Helper()
	courses := store.Courses()
	if len(courses) == 0 {
		t.Fatal("seed course missing")
	}
	return courses[0].ID
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
	wantOut string
}

func Test_commandLine_help(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login without email", args: []string{"login"}, wantErr: errHelp},
		{name: "course without id", args: []string{"course"}, wantErr: errHelp},
		{name: "enroll without id", args: []string{"enroll"}, wantErr: errHelp},
		{name: "quiz without section", args: []string{"quiz", "-course", "c-1"}, wantErr: errHelp},
		{name: "create without file", args: []string{"create", "-title", "X"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _, _ := setup(t, "")
			args := append([]string{"llamalearn"}, tt.args...)
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_session(t *testing.T) {
	tests := []cliTest{
		{
			name: "login", args: []string{"login", "-email", "student@llamalearn.test"},
			pwd: "Stud3nt-Demo!", wantOut: "Signed in as studentdemo (student)",
		},
		{
			name: "wrong password", args: []string{"login", "-email", "student@llamalearn.test"},
			pwd: "nope", wantErr: errLoginFailed,
		},
		{
			name: "empty password", args: []string{"login", "-email", "student@llamalearn.test"},
			pwd: "", wantErr: errHelp,
		},
		{name: "whoami unauthenticated", args: []string{"whoami"}, wantErr: errNotSignedIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out, _ := setup(t, "")
			mockPassword(tt.pwd)
			args := append([]string{"llamalearn"}, tt.args...)
			if err := cli.run(args); err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output %q does not contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_whoami_restoresSession(t *testing.T) {
	cli, out, _ := setup(t, "")
	mockPassword("Stud3nt-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "student@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	// the second command restores the session from the stored token
	if err := cli.run([]string{"llamalearn", "whoami"}); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out.String(), "studentdemo <student@llamalearn.test> (student)") {
		t.Errorf("whoami output: %q", out.String())
	}
}

func Test_commandLine_register(t *testing.T) {
	cli, out, _ := setup(t, "")
	mockPassword("N3w-Stud3nt!")

	err := cli.run([]string{"llamalearn", "register", "-email", "newbie@test.cd", "-username", "newbie"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out.String(), "Welcome, newbie! You are signed in as a student.") {
		t.Errorf("register output: %q", out.String())
	}
}

func Test_commandLine_enrollAndCourses(t *testing.T) {
	cli, out, store := setup(t, "")
	courseID := seededCourseID(t, store)
	mockPassword("Stud3nt-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "student@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := cli.run([]string{"llamalearn", "enroll", "-id", courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if !strings.Contains(out.String(), "Enrolled in Linear Algebra Foundations.") {
		t.Errorf("enroll output: %q", out.String())
	}

	out.Reset()
	if err := cli.run([]string{"llamalearn", "courses", "-enrolled"}); err != nil {
		t.Fatalf("courses: %v", err)
	}
	if !strings.Contains(out.String(), "Linear Algebra Foundations") {
		t.Errorf("courses output: %q", out.String())
	}

	// a second enroll surfaces the backend's message
	if err := cli.run([]string{"llamalearn", "enroll", "-id", courseID}); err == nil {
		t.Error("second enroll should fail")
	}
}

func Test_commandLine_quiz(t *testing.T) {
	// start prompt, three answers, submit, decline the review
	script := "\na\nb\nb\ns\nn\n"
	cli, out, store := setup(t, script)
	courseID := seededCourseID(t, store)
	mockPassword("Stud3nt-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "student@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := cli.run([]string{"llamalearn", "enroll", "-id", courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	out.Reset()
	if err := cli.run([]string{"llamalearn", "quiz", "-course", courseID, "-section", "s-2"}); err != nil {
		t.Fatalf("quiz: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "3 questions, 300 seconds") {
		t.Errorf("quiz intro missing: %q", got)
	}
	if !strings.Contains(got, "you have not viewed every section") {
		t.Errorf("readiness warning missing: %q", got)
	}
	if !strings.Contains(got, "Score: 100%") {
		t.Errorf("score missing: %q", got)
	}
	if !strings.Contains(got, "Perfect score!") {
		t.Errorf("perfect-score note missing: %q", got)
	}
}

func Test_commandLine_readSection(t *testing.T) {
	cli, out, store := setup(t, "")
	courseID := seededCourseID(t, store)
	mockPassword("Stud3nt-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "student@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := cli.run([]string{"llamalearn", "enroll", "-id", courseID}); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	out.Reset()
	if err := cli.run([]string{"llamalearn", "course", "-id", courseID, "-section", "s-1"}); err != nil {
		t.Fatalf("course -section: %v", err)
	}
	if !strings.Contains(out.String(), "What is a vector?") {
		t.Errorf("section pages missing: %q", out.String())
	}

	// reading the section moved the progress figure
	out.Reset()
	if err := cli.run([]string{"llamalearn", "course", "-id", courseID, "-details"}); err != nil {
		t.Fatalf("course -details: %v", err)
	}
	if !strings.Contains(out.String(), "Progress: 1/2 sections (50%)") {
		t.Errorf("progress missing: %q", out.String())
	}
}

func Test_commandLine_create(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "discrete.zip")
	f, err := os.Create(archive)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("01-sets.md")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("# Sets\n\nA set is a collection of distinct elements.")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	cli, out, _ := setup(t, "")
	mockPassword("Pr0f-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "prof@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	out.Reset()
	err = cli.run([]string{
		"llamalearn", "create",
		"-title", "Discrete Mathematics",
		"-description", "Sets and proofs.",
		"-file", archive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out.String(), "Course ready: ") {
		t.Errorf("create output: %q", out.String())
	}

	out.Reset()
	if err := cli.run([]string{"llamalearn", "courses", "-teaching"}); err != nil {
		t.Fatalf("courses -teaching: %v", err)
	}
	if !strings.Contains(out.String(), "Discrete Mathematics") {
		t.Errorf("teaching list output: %q", out.String())
	}
}

func Test_commandLine_manage(t *testing.T) {
	cli, out, store := setup(t, "")
	courseID := seededCourseID(t, store)
	mockPassword("Pr0f-Demo!")

	if err := cli.run([]string{"llamalearn", "login", "-email", "prof@llamalearn.test"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := cli.run([]string{"llamalearn", "manage", "-id", courseID}); err != nil {
		t.Fatalf("manage: %v", err)
	}
	if !strings.Contains(out.String(), "Linear Algebra Foundations") {
		t.Errorf("manage output: %q", out.String())
	}

	// students cannot manage
	mockPassword("Stud3nt-Demo!")
	if err := cli.run([]string{"llamalearn", "login", "-email", "student@llamalearn.test"}); err != nil {
		t.Fatalf("student login: %v", err)
	}
	if err := cli.run([]string{"llamalearn", "manage", "-id", courseID}); err == nil {
		t.Error("manage as a student should fail")
	}
}
