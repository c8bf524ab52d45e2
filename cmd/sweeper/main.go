// Command sweeper runs one archival pass: it archives accounts whose block
// window has started and unarchives accounts whose window has ended. It is
// meant to run from cron or a scheduler, one shot per invocation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/sunubank/ledger/infra/initializer"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	deps, err := initializer.InitializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archived, err := deps.Lifecycle.ArchiveExpiredBlocks(ctx)
	if err != nil {
		return fmt.Errorf("archive sweep: %w", err)
	}
	unarchived, err := deps.Lifecycle.UnarchiveExpiredBlocks(ctx)
	if err != nil {
		return fmt.Errorf("unarchive sweep: %w", err)
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Println("sweep complete")
	green.Printf("  archived:   %d accounts, %d transactions\n",
		archived.Accounts, archived.Transactions)
	yellow.Printf("  unarchived: %d accounts, %d transactions\n",
		unarchived.Accounts, unarchived.Transactions)
	return nil
}
