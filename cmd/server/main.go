package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/sunubank/ledger/infra/initializer"
	"github.com/sunubank/ledger/webapi"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run starts the HTTP server and the outbox worker and stops both on
// SIGINT/SIGTERM.
func run() error {
	deps, err := initializer.InitializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	logger := deps.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := webapi.NewApp(webapi.Services{
		Ledger:    deps.Ledger,
		Lifecycle: deps.Lifecycle,
		Opening:   deps.Opening,
	})

	addr := fmt.Sprintf("%s:%d", deps.Cfg.Server.Host, deps.Cfg.Server.Port)
	logger.Info("starting server", "env", deps.Cfg.Env, "address", addr)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(addr)
	})
	g.Go(func() error {
		logger.Info("starting outbox worker",
			"interval", deps.Cfg.Outbox.PollInterval,
			"batch", deps.Cfg.Outbox.BatchSize,
		)
		err := deps.Outbox.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		return app.Shutdown()
	})

	return g.Wait()
}
