package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/jhodges/shuttlepay/internal/cli"
	"github.com/jhodges/shuttlepay/internal/config"
	"github.com/jhodges/shuttlepay/internal/domain/alias"
	"github.com/jhodges/shuttlepay/internal/domain/attribution"
	"github.com/jhodges/shuttlepay/internal/domain/roster"
	"github.com/jhodges/shuttlepay/internal/domain/schedule"
	"github.com/jhodges/shuttlepay/internal/domain/session"
	"github.com/jhodges/shuttlepay/internal/sheets"
	"github.com/jhodges/shuttlepay/internal/sqlite"
	"github.com/jhodges/shuttlepay/internal/statement"
)

const usage = `usage: shuttlepay <op>

  F       create the session for this week from the sign-up sheet
  M       process payments for this week's session
  I       show this week's session summary
  R [n]   reprocess one of the last n sessions (default 5)
  L       list recent sessions
`

func main() {
	// A .env next to the binary is convenient for the statement and
	// roster directories; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so prompts and summaries own stdout.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	location, err := time.LoadLocation(cfg.Club.Timezone)
	if err != nil {
		logger.Error("invalid timezone", "timezone", cfg.Club.Timezone, "error", err)
		os.Exit(1)
	}
	defaultCharge, err := decimal.NewFromString(cfg.Club.DefaultCharge)
	if err != nil {
		logger.Error("invalid default charge", "charge", cfg.Club.DefaultCharge, "error", err)
		os.Exit(1)
	}

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sessionSvc := session.NewService(sqlite.NewSessionRepository(db), logger)
	aliasSvc := alias.NewService(sqlite.NewAliasRepository(db), logger)
	prompter := cli.NewPrompter(os.Stdin, os.Stdout)
	engine := attribution.NewEngine(
		sessionSvc,
		aliasSvc,
		sqlite.NewOBORepository(db),
		sqlite.NewIncidentalRepository(db),
		prompter,
		cfg.Club.HostName,
		logger,
	)

	a := &app{
		sessions:      sessionSvc,
		engine:        engine,
		prompt:        prompter,
		roster:        sheets.NewFileSource(cfg.Club.RosterDir),
		statementDir:  cfg.Club.StatementDir,
		defaultCharge: defaultCharge,
		location:      location,
		out:           os.Stdout,
		logger:        logger,
	}

	op := "M"
	if len(os.Args) > 1 {
		op = os.Args[1]
	}

	ctx := context.Background()
	var runErr error
	switch strings.ToUpper(op) {
	case "F":
		runErr = a.createSession(ctx)
	case "M":
		runErr = a.reconcile(ctx, schedule.SessionTime(time.Now().In(location)))
	case "I":
		runErr = a.printSummary(ctx, schedule.SessionTime(time.Now().In(location)))
	case "R":
		runErr = a.reprocess(ctx, os.Args[2:])
	case "L":
		runErr = a.listSessions(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if runErr != nil {
		logger.Error("operation failed", "op", op, "error", runErr)
		os.Exit(1)
	}
}

type app struct {
	sessions      *session.Service
	engine        *attribution.Engine
	prompt        *cli.Prompter
	roster        roster.Source
	statementDir  string
	defaultCharge decimal.Decimal
	location      *time.Location
	out           io.Writer
	logger        *slog.Logger
}

// createSession builds this week's session from the sign-up sheet export.
// An existing session for the date is only replaced after confirmation.
func (a *app) createSession(ctx context.Context) error {
	date := schedule.SessionTime(time.Now().In(a.location))

	data, err := a.roster.SessionData(ctx, date)
	if errors.Is(err, roster.ErrNoRoster) {
		a.logger.Warn("no sign-up sheet export for session", "date", date)
		fmt.Fprintf(a.out, "No sign-up sheet found for %s; nothing created.\n",
			date.Format("Mon 2 Jan 2006"))
		return nil
	}
	if err != nil {
		return err
	}
	names := roster.CleanNames(data.RawNames)
	if data.Attendance > 0 && data.Attendance != len(names) {
		a.logger.Warn("sign-up names differ from sheet attendance count",
			"names", len(names), "attendance", data.Attendance)
	}
	charge := data.Charge
	if !charge.IsPositive() {
		charge = a.defaultCharge
	}

	_, err = a.sessions.Create(ctx, date, names, charge, data.Courts)
	if errors.Is(err, session.ErrSessionExists) {
		overwrite, cerr := a.prompt.Confirm(fmt.Sprintf(
			"A session for %s already exists. Recreate it and lose its payments? ",
			date.Format("Mon 2 Jan 2006")))
		if cerr != nil {
			return cerr
		}
		if !overwrite {
			return nil
		}
		_, err = a.sessions.Recreate(ctx, date, names, charge, data.Courts)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Created session %s: %d attendees, charge £%s.\n",
		date.Format("Mon 2 Jan 2006"), len(names), charge.StringFixed(2))
	return nil
}

// reconcile runs the full payment pass for one session: the latest
// statement export, then cash, no-shows and excess resolution.
func (a *app) reconcile(ctx context.Context, date time.Time) error {
	path, err := statement.LatestFile(a.statementDir)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	rows, err := statement.Parse(file)
	file.Close()
	if err != nil {
		return err
	}

	from, to := schedule.PaymentWindow(date)
	rows = statement.FilterWindow(rows, from, to)

	processed, err := a.engine.Process(ctx, date, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Processed %d new statement rows.\n", processed)

	if err := a.engine.CollectCash(ctx, date); err != nil {
		return err
	}
	if err := a.engine.CollectNoShows(ctx, date); err != nil {
		return err
	}
	if err := a.engine.ResolveExcess(ctx, date); err != nil {
		return err
	}
	return a.printSummary(ctx, date)
}

// printSummary shows per-kind totals and who still owes.
func (a *app) printSummary(ctx context.Context, date time.Time) error {
	sess, err := a.sessions.Get(ctx, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Session %s: %d attendees, %d courts, charge £%s\n",
		sess.Date.Format("Mon 2 Jan 2006"), len(sess.Roster), sess.Courts, sess.Charge.StringFixed(2))
	for _, kind := range session.Kinds {
		total := sess.Total(kind)
		if total.IsZero() && kind != session.KindTransfer {
			continue
		}
		fmt.Fprintf(a.out, "  %-8s £%s\n", kind, total.StringFixed(2))
	}

	unpaid := sess.Unpaid()
	if len(unpaid) == 0 {
		fmt.Fprintln(a.out, "Everyone has paid.")
		return nil
	}
	fmt.Fprintf(a.out, "Unpaid (%d): %s\n", len(unpaid), strings.Join(unpaid, ", "))
	return nil
}

// reprocess re-runs reconciliation for one of the recent sessions, picked
// interactively. Late transfers often arrive a week or more after the event.
func (a *app) reprocess(ctx context.Context, args []string) error {
	limit := 5
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid session count %q", args[0])
		}
		limit = parsed
	}

	dates, err := a.sessions.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No sessions recorded.")
		return nil
	}

	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = d.Format("Mon 2 Jan 2006")
	}
	choice, err := a.prompt.Choose("Which session?", labels)
	if err != nil {
		return err
	}
	if choice.Kind != attribution.ChoiceSelect {
		return nil
	}
	return a.reconcile(ctx, dates[choice.Index])
}

// listSessions prints the recent sessions with their outstanding counts.
func (a *app) listSessions(ctx context.Context) error {
	dates, err := a.sessions.ListRecent(ctx, 10)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No sessions recorded.")
		return nil
	}

	for _, date := range dates {
		sess, err := a.sessions.Get(ctx, date)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s  %2d attendees  %2d unpaid  %2d rows processed\n",
			date.Format("Mon 2 Jan 2006"), len(sess.Roster), len(sess.Unpaid()), sess.RowsProcessed)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
