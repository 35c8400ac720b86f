package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spachava753/assistant/commands"
	"github.com/spachava753/assistant/reminder"
)

func newRemindCommand(opts *options, rootFlags *pflag.FlagSet) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Mail a digest of birthdays in the coming week",
		Long: `Loads the address book and mails the contacts whose birthday falls in the
next seven days to the configured recipients.

Usage examples:

1. Print the message instead of sending it:

	assistant remind --dry-run

2. Send through a STARTTLS relay:

	ASSISTANT_SMTP_HOST=smtp.example.com ASSISTANT_SMTP_PORT=587 \
	ASSISTANT_SMTP_TLS=starttls ASSISTANT_SMTP_TO=me@example.com \
	assistant remind
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(opts, rootFlags)
			if err != nil {
				return err
			}
			defer env.Close()

			book, err := env.store.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("loading address book: %w", err)
			}

			digest := reminder.NewDigest(book, now())
			if digest.Empty() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), commands.MsgNoUpcoming)
				return nil
			}

			smtpCfg := env.cfg.SMTP
			if smtpCfg.Host == "" {
				return errors.New("remind: smtp.host is not configured")
			}
			mailer, err := reminder.NewMailer(reminder.Config{
				Host:     smtpCfg.Host,
				Port:     smtpCfg.Port,
				Username: smtpCfg.Username,
				Password: smtpCfg.Password,
				From:     smtpCfg.From,
				To:       smtpCfg.To,
				TLS:      reminder.TLSMode(smtpCfg.TLS),
				Timeout:  smtpCfg.Timeout,
			})
			if err != nil {
				return err //nolint:wrapcheck
			}

			if dryRun {
				_, err := cmd.OutOrStdout().Write(mailer.Message(digest))
				return err //nolint:wrapcheck
			}

			if err := mailer.Send(cmd.Context(), digest); err != nil {
				env.logger.Error("sending reminder failed", zap.Error(err))
				return err //nolint:wrapcheck
			}
			env.logger.Info("reminder sent",
				zap.Int("contacts", len(digest.Upcoming)),
				zap.Strings("to", smtpCfg.To),
			)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reminder sent for %d contact(s).\n", len(digest.Upcoming))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Print the message to stdout instead of sending it.")
	return cmd
}
