package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "ws://localhost:8080", "LARK server WebSocket base URL")
	token       = flag.String("token", "", "Access token for the officer account")
	scenario    = flag.String("scenario", "", "Scripted scenario to run (patrol, pursuit, domestic)")
	interactive = flag.Bool("interactive", false, "Enable interactive mode")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *token == "" {
		fmt.Fprintln(os.Stderr, "A --token is required; log in through /api/v1/auth/login first")
		os.Exit(1)
	}

	sim := NewFieldClient(&FieldClientConfig{
		ServerURL: *serverURL,
		Token:     *token,
	}, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down field client...")
		sim.Stop()
		os.Exit(0)
	}()

	if err := sim.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}

	switch {
	case *scenario != "":
		if err := sim.RunScenario(*scenario); err != nil {
			logger.Fatal("Scenario failed", zap.Error(err))
		}
		sim.Stop()
	case *interactive:
		runInteractiveMode(sim)
		sim.Stop()
	default:
		fmt.Println("LARK field client started")
		fmt.Printf("  Server: %s\n", *serverURL)
		fmt.Println("\nPress Ctrl+C to stop")
		select {}
	}
}

func runInteractiveMode(sim *FieldClient) {
	fmt.Println("\nLARK Field Client - Interactive Mode")
	fmt.Println("====================================")
	fmt.Println("Commands:")
	fmt.Println("  say <text>           - Send a voice command as text")
	fmt.Println("  scenario <name>      - Run a scripted scenario (patrol, pursuit, domestic)")
	fmt.Println("  quit                 - Exit")
	fmt.Println("")

	sim.RunInteractive()
}
