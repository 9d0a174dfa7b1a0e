package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/pswatch/internal/agent"
	"github.com/dmitrijs2005/pswatch/internal/agent/config"
)

// promptPassword asks for the sign-in password when it was not provided via
// the environment and stdin is an interactive terminal.
func promptPassword(cfg *config.Config) error {
	if cfg.Password != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	fmt.Fprintf(os.Stderr, "password for %s: ", cfg.Username)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	cfg.Password = string(b)
	return nil
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	if err := promptPassword(cfg); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	app, err := agent.NewApp(cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
