package main

import (
	"context"
	"fmt"

	"github.com/sheetsprojectsofficial/coldemail"
	coldemailhttp "github.com/sheetsprojectsofficial/coldemail/http"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is canceled
// and then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := coldemailhttp.NewServer()
	server.Addr = deps.Config.Server.Addr
	if c.Addr != "" {
		server.Addr = c.Addr
	}
	server.Finder = deps.Finder
	server.Reports = deps.Reports
	server.Logger = deps.Logger
	if deps.Metrics != nil {
		server.Metrics = deps.Metrics.Handler()
	}

	if err := server.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", coldemail.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", server.URL())

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout.Duration)
		defer cancel()
		if err := server.Close(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		fmt.Fprintln(deps.Stdout, "Server stopped")
		return nil
	})
	return g.Wait()
}
