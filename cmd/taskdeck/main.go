// Package main is the entry point for the taskdeck CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/internal/backend/restapi"
	"taskdeck/internal/cli"
	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/nav"
	"taskdeck/internal/session"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Wire the real collaborators: session store, navigator, REST client.
	factory := func(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*commands.Env, error) {
		store := session.NewStore(cfg)
		navigator := &nav.Writer{Out: errOut}
		svc := restapi.New(cfg.APIBaseURL, store.TokenSource(), navigator)
		return &commands.Env{Cfg: cfg, Svc: svc, Sessions: store, Nav: navigator}, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
