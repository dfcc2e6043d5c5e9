package main

import (
	"log"
	"os"
	"time"

	echoapi "github.com/llamalearn/llamalearn/apps/devserver/echo"
	"github.com/llamalearn/llamalearn/core"
	logsvc "github.com/llamalearn/llamalearn/services/logger"
	"github.com/llamalearn/llamalearn/storage/inmem"
)

func main() {
	std := log.New(os.Stderr, "DEVSERVER : ", log.LstdFlags|log.Lshortfile)

	// set up services
	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// seed the in-memory store with demo accounts and a sample course
	store := inmem.Open()
	inmem.Seed(store)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:       core.Conf.ServerAddr,
			Store:      store,
			Logger:     logger,
			SecretKey:  core.Conf.SecretKey,
			StageDelay: 150 * time.Millisecond,
		},
	)
	app.Start()
}
