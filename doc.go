// Package assistant is a documentation-only index for the address-book
// assistant module.
//
// The assistant keeps contacts with phone numbers and birthdays, answers
// commands typed in an interactive session, persists the book between runs
// and can mail a digest of the birthdays coming up in the next week.
//
// Available subpackages:
//   - github.com/spachava753/assistant/addressbook
//     Contact model: validated phone and birthday fields, records, the book
//     and the upcoming-birthdays query.
//   - github.com/spachava753/assistant/commands
//     Command handlers, dispatcher, console output and the interactive
//     session loop.
//   - github.com/spachava753/assistant/storage
//     Versioned snapshot format shared by the storage backends.
//   - github.com/spachava753/assistant/storage/filestore
//     JSON or CBOR file backend with atomic writes.
//   - github.com/spachava753/assistant/storage/sqlitestore
//     SQLite backend.
//   - github.com/spachava753/assistant/reminder
//     Birthday digest and SMTP mailer.
//   - github.com/spachava753/assistant/config
//     Defaults, config file, .env and ASSISTANT_* environment settings.
//   - github.com/spachava753/assistant/logging
//     Structured zap logger.
//   - github.com/spachava753/assistant/cli
//     The assistant command line (cmd/assistant).
//
// Discovery workflow:
//   - Run: go doc github.com/spachava753/assistant
//   - Then drill in with:
//     go doc github.com/spachava753/assistant/addressbook
//     go doc github.com/spachava753/assistant/commands
//     go doc github.com/spachava753/assistant/reminder
package assistant
