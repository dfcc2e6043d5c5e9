package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/core/session"
	"github.com/llamalearn/llamalearn/core/user"
	"github.com/llamalearn/llamalearn/services/api"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errNotSignedIn  = errors.New("not signed in; run `llamalearn login` first")
	errLoginFailed  = errors.New("sign in failed")
	errSignupFailed = errors.New("sign up failed")
)

type commandLine struct {
	sessions *session.Service
	courses  *course.Service
	quizzes  *quiz.Service
	backend  *apisvc.Client
	log      core.Logger

	out io.Writer
	in  *bufio.Reader
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL                          - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  register -email EMAIL -username NAME [-professor] - create an account and sign in")
	fmt.Fprintln(cli.out, "  logout                                      - drop the stored session")
	fmt.Fprintln(cli.out, "  whoami                                      - show the signed-in user")
	fmt.Fprintln(cli.out, "  courses [-enrolled|-available|-teaching]    - list courses")
	fmt.Fprintln(cli.out, "  course -id ID [-details|-section ID]        - show one course, or read a section")
	fmt.Fprintln(cli.out, "  enroll -id ID                               - enroll in a course")
	fmt.Fprintln(cli.out, "  quiz -course ID -section ID                 - sit the section quiz")
	fmt.Fprintln(cli.out, "  create -title TITLE -description TEXT -file ARCHIVE.zip - generate a course")
	fmt.Fprintln(cli.out, "  manage -id ID                               - professor view of an owned course")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginEmail := loginCmd.String("email", "", "The account's email. The password will be prompted next.")

	registerCmd := flag.NewFlagSet("register", flag.ExitOnError)
	registerEmail := registerCmd.String("email", "", "The new account's email.")
	registerUname := registerCmd.String("username", "", "The new account's username.")
	registerProf := registerCmd.Bool("professor", false, "Register as a professor instead of a student.")

	coursesCmd := flag.NewFlagSet("courses", flag.ExitOnError)
	coursesEnrolled := coursesCmd.Bool("enrolled", false, "Only courses you are enrolled in.")
	coursesAvailable := coursesCmd.Bool("available", false, "Only courses open for enrollment.")
	coursesTeaching := coursesCmd.Bool("teaching", false, "Only courses you teach.")

	courseCmd := flag.NewFlagSet("course", flag.ExitOnError)
	courseID := courseCmd.String("id", "", "The course id.")
	courseDetails := courseCmd.Bool("details", false, "Include sections and pages.")
	courseSection := courseCmd.String("section", "", "Read one section's pages and mark it viewed.")

	enrollCmd := flag.NewFlagSet("enroll", flag.ExitOnError)
	enrollID := enrollCmd.String("id", "", "The course id.")

	quizCmd := flag.NewFlagSet("quiz", flag.ExitOnError)
	quizCourse := quizCmd.String("course", "", "The course id.")
	quizSection := quizCmd.String("section", "", "The section id.")

	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createTitle := createCmd.String("title", "", "The course title.")
	createDesc := createCmd.String("description", "", "The course description.")
	createFile := createCmd.String("file", "", "Path to the zipped course material.")

	manageCmd := flag.NewFlagSet("manage", flag.ExitOnError)
	manageID := manageCmd.String("id", "", "The course id.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, pwd)
	case "register":
		if err := registerCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *registerEmail == "" || *registerUname == "" {
			registerCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			registerCmd.Usage()
			return errHelp
		}
		role := user.RoleStudent
		if *registerProf {
			role = user.RoleProfessor
		}
		return cli.register(ctx, *registerEmail, pwd, *registerUname, role)
	case "logout":
		cli.sessions.Logout()
		fmt.Fprintln(cli.out, "Signed out.")
		return nil
	case "whoami":
		return cli.whoami(ctx)
	case "courses":
		if err := coursesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listCourses(ctx, *coursesEnrolled, *coursesAvailable, *coursesTeaching)
	case "course":
		if err := courseCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *courseID == "" {
			courseCmd.Usage()
			return errHelp
		}
		if *courseSection != "" {
			return cli.readSection(ctx, *courseID, *courseSection)
		}
		return cli.showCourse(ctx, *courseID, *courseDetails)
	case "enroll":
		if err := enrollCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *enrollID == "" {
			enrollCmd.Usage()
			return errHelp
		}
		return cli.enroll(ctx, *enrollID)
	case "quiz":
		if err := quizCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *quizCourse == "" || *quizSection == "" {
			quizCmd.Usage()
			return errHelp
		}
		return cli.sitQuiz(ctx, *quizCourse, *quizSection)
	case "create":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createTitle == "" || *createFile == "" {
			createCmd.Usage()
			return errHelp
		}
		return cli.createCourse(ctx, *createTitle, *createDesc, *createFile)
	case "manage":
		if err := manageCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *manageID == "" {
			manageCmd.Usage()
			return errHelp
		}
		return cli.manageCourse(ctx, *manageID)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// restore rehydrates the session from the stored token and fails the command
// when no valid session comes back.
func (cli *commandLine) restore(ctx context.Context) (user.User, error) {
	cli.sessions.Restore(ctx)
	usr, ok := cli.sessions.User()
	if !ok {
		return user.User{}, errNotSignedIn
	}
	return usr, nil
}

func (cli *commandLine) readLine() (string, error) {
	line, err := cli.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return core.CleanString(line), nil
}
