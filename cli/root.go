// Package cli implements the assistant command line: the interactive
// address-book session and the remind subcommand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spachava753/assistant/commands"
)

// now is the clock used for birthday queries.
var now = time.Now

// Execute runs the assistant command line with os.Args.
func Execute(ctx context.Context) error {
	return NewCommand().ExecuteContext(ctx)
}

// NewCommand builds the root command and its subcommands.
func NewCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Interactive address book with birthday reminders",
		Long: `Runs an interactive session that keeps contacts, phone numbers and
birthdays. The address book is loaded on start and saved when the session
ends, including on end of input and on SIGINT/SIGTERM.

Commands inside the session:

	add <name> <phone>
	add-birthday <name> <DD.MM.YYYY>
	show-birthday <name>
	birthdays
	close | exit | goodbye
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(cmd.PersistentFlags())

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runSession(cmd, opts)
	}
	cmd.AddCommand(newRemindCommand(opts, cmd.PersistentFlags()))

	return cmd
}

func runSession(cmd *cobra.Command, opts *options) error {
	env, err := setup(opts, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	book, err := env.store.Load(ctx)
	if err != nil {
		logger.Error("loading address book failed", zap.String("path", env.cfg.DataFile), zap.Error(err))
		return fmt.Errorf("loading address book: %w", err)
	}
	logger.Info("address book loaded",
		zap.String("path", env.cfg.DataFile),
		zap.Int("contacts", book.Len()),
	)

	out := commands.NewConsole(cmd.OutOrStdout())
	dispatcher := commands.NewDispatcher(book, out,
		commands.WithLogger(logger),
		commands.WithClock(now),
	)
	runErr := commands.NewSession(cmd.InOrStdin(), cmd.OutOrStdout(), dispatcher).Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		logger.Info("session interrupted")
		runErr = nil
	}

	// The session context may already be cancelled; the save must still run.
	if err := env.store.Save(context.WithoutCancel(ctx), book); err != nil {
		logger.Error("saving address book failed", zap.String("path", env.cfg.DataFile), zap.Error(err))
		return errors.Join(runErr, fmt.Errorf("saving address book: %w", err))
	}
	logger.Info("address book saved",
		zap.String("path", env.cfg.DataFile),
		zap.Int("contacts", book.Len()),
	)
	return runErr
}
