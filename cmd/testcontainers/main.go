package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/barrio/tests/helpers"
)

const usage = `
Start the barrio stack (database and barrio service) in testcontainers and keep it
running until interrupted. DB_URL and BASE_URL are printed once the stack is up, for
clients and test runners outside the go test harness.

Usage:

  testcontainers [-h] [-f ENV_FILE]

  -f ENV_FILE  load DB_*, JWT_SECRET and PORT from ENV_FILE before starting
  -h           show this help

Set DEBUG_CONTAINER=true to run barrio under dlv on 127.0.0.1:2345.
`

func main() {
	showHelp := flag.Bool("h", false, "show help")
	envFile := flag.String("f", "", "path to the .env file")
	flag.Parse()

	if *showHelp {
		fmt.Print(usage)
		return
	}

	if *envFile != "" {
		log.Printf("Loading environment from %s", *envFile)
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatalf("Failed to load %s: %v", *envFile, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	started := make(chan *helpers.TestContainers, 1)
	go func() {
		tc, err := helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatalf("Failed to start the barrio stack: %v", err)
		}
		started <- tc
	}()

	select {
	case tc := <-started:
		log.Printf("barrio stack is up, press Ctrl+C to stop")
		<-ctx.Done()
		log.Printf("Stopping the barrio stack")
		tc.Terminate(nil)
	case <-ctx.Done():
		// Interrupted while starting; terminate whatever came up once startup returns
		log.Printf("Interrupted during startup, waiting to clean up")
		if tc := <-started; tc != nil {
			tc.Terminate(nil)
		}
	}
}
