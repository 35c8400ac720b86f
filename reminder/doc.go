// Package reminder mails a digest of upcoming birthdays.
//
// A [Digest] is built from an address book with [NewDigest] and rendered as
// a plain-text message: the subject carries the query date and the body has
// one "Name: DD.MM.YYYY" line per contact whose birthday falls in the
// seven-day window.
//
// [Mailer] delivers the digest over SMTP. The connection is secured with
// implicit TLS, STARTTLS or not at all depending on [Config.TLS], and PLAIN
// authentication is used whenever a username is configured. Recipients are
// trimmed and de-duplicated in order. Sending an empty digest returns
// [ErrNothingToSend] without dialing.
//
// # Example
//
//	mailer, err := reminder.NewMailer(reminder.Config{
//		Host:     "smtp.example.com",
//		Port:     465,
//		Username: "bot@example.com",
//		Password: os.Getenv("SMTP_PASSWORD"),
//		From:     "bot@example.com",
//		To:       []string{"me@example.com"},
//	})
//	if err != nil {
//		return err
//	}
//	digest := reminder.NewDigest(book, time.Now())
//	if err := mailer.Send(ctx, digest); err != nil && !errors.Is(err, reminder.ErrNothingToSend) {
//		return err
//	}
package reminder
