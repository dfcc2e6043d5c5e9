package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/llamalearn/llamalearn/core"
	"github.com/llamalearn/llamalearn/core/course"
	"github.com/llamalearn/llamalearn/core/quiz"
	"github.com/llamalearn/llamalearn/core/session"
	"github.com/llamalearn/llamalearn/services/api"
	"github.com/llamalearn/llamalearn/services/logger"
	"github.com/llamalearn/llamalearn/storage/token"
)

func main() {
	defer os.Exit(0)

	std := log.New(os.Stderr, "LLAMALEARN : ", log.LstdFlags)

	// set up services
	var appLog core.Logger
	if core.Conf.Debug {
		appLog = logsvc.NewConsoleLogger(std)
	} else {
		appLog = logsvc.NewRollbarLogger(std, core.Conf)
	}

	tokens := tokenstore.NewFileStore(core.Conf.TokenFile)
	backend := apisvc.NewClient(core.Conf, tokens, appLog)
	notify := func(msg string) { fmt.Fprintln(os.Stderr, msg) }

	// start CLI
	cli := commandLine{
		sessions: session.NewService(backend, tokens, appLog, notify),
		courses:  course.NewService(backend, appLog),
		quizzes:  quiz.NewService(backend, appLog),
		backend:  backend,
		log:      appLog,
		out:      os.Stdout,
		in:       bufio.NewReader(os.Stdin),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
