package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/beeseek/notify-api/internal/bootstrap"
	"github.com/beeseek/notify-api/internal/data"
	"github.com/beeseek/notify-api/internal/domain/model"
	"github.com/beeseek/notify-api/internal/migrate"
	"github.com/beeseek/notify-api/internal/service/health"
)

const (
	defaultMigrationTimeout = 5 * time.Minute
	defaultCommandTimeout   = 30 * time.Second
	defaultTestSMSMessage   = "BeeSeek notify-admin test message"
	defaultTestEmailSubject = "BeeSeek notify-admin test"
)

var errProvidersUnhealthy = errors.New("one or more providers are unhealthy")

type migrateOptions struct {
	Timeout time.Duration
	List    bool
}

type healthOptions struct {
	Timeout time.Duration
}

type auditTrailOptions struct {
	AlertID string
	JSON    bool
}

type testSMSOptions struct {
	To      string
	Message string
}

type testEmailOptions struct {
	To      string
	Subject string
	Message string
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	if opts.List {
		versions, listErr := migrate.Versions()
		if listErr != nil {
			return listErr
		}
		for _, v := range versions {
			if writeErr := writeln(cmdCtx.Out, v); writeErr != nil {
				return writeErr
			}
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	cmdCtx.Logger.Info("running database migrations")

	if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
		return fmt.Errorf("run migrations: %w", migrateErr)
	}

	cmdCtx.Logger.Info("migrations completed successfully")
	return nil
}

func runHealth(cmdCtx *commandContext, args []string) error {
	opts, err := parseHealthFlags(args)
	if err != nil {
		return err
	}

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	// The CLI never reads the cache; it always probes.
	report := svcs.Health.Refresh(ctx)
	if printErr := printHealthReport(cmdCtx.Out, report); printErr != nil {
		return printErr
	}
	if !report.Success {
		return errProvidersUnhealthy
	}
	return nil
}

func printHealthReport(w io.Writer, report health.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode health report: %w", err)
	}
	return nil
}

func runAuditTrail(cmdCtx *commandContext, args []string) error {
	opts, err := parseAuditTrailFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", closeErr)
		}
	}()

	records, err := data.NewAuditRepo(db).ListBySOSID(ctx, opts.AlertID)
	if err != nil {
		return fmt.Errorf("list audit trail: %w", err)
	}

	if opts.JSON {
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return renderAuditTable(cmdCtx.Out, opts.AlertID, records)
}

func renderAuditTable(w io.Writer, alertID string, records []*model.AuditRecord) error {
	if len(records) == 0 {
		return writef(w, "No audit records for alert %s\n", alertID)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "TIME\tACTION\tSTATUS\tTARGET\tNAME\tDETAIL"); err != nil {
		return fmt.Errorf("write audit header row: %w", err)
	}

	for _, rec := range records {
		if err := writef(
			tw,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.CreatedAt.UTC().Format(time.RFC3339),
			rec.ActionType,
			rec.ActionStatus,
			dashIfEmpty(rec.TargetIdentifier),
			dashIfEmpty(rec.TargetName),
			dashIfEmpty(auditDetail(rec)),
		); err != nil {
			return fmt.Errorf("write audit row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush audit table: %w", err)
	}
	return writef(w, "Total records: %d\n", len(records))
}

func auditDetail(rec *model.AuditRecord) string {
	if rec.ErrorMessage != "" {
		return rec.ErrorMessage
	}
	return rec.Notes
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func runSendTestSMS(cmdCtx *commandContext, args []string) error {
	opts, err := parseTestSMSFlags(args)
	if err != nil {
		return err
	}

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, cmdCtx.Config.Dispatch.SendTimeout)
	defer cancel()

	return printSendResult(cmdCtx.Out, "sms", opts.To, svcs.SMS.SendSMS(ctx, opts.To, opts.Message))
}

func runSendTestEmail(cmdCtx *commandContext, args []string) error {
	opts, err := parseTestEmailFlags(args)
	if err != nil {
		return err
	}

	svcs, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cmdCtx.Config,
		Logger: cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)
	defer cancel()

	res, err := svcs.Messaging.Send(ctx, model.EmailKindNotification, model.MessageRequest{
		Email:   opts.To,
		Subject: opts.Subject,
		Message: opts.Message,
	})
	if err != nil {
		return err
	}
	return printSendResult(cmdCtx.Out, "email", opts.To, res)
}

func printSendResult(w io.Writer, channel, to string, res model.SendResult) error {
	if !res.Succeeded {
		if err := writef(w, "%s to %s failed: %s\n", channel, to, res.Error); err != nil {
			return err
		}
		return fmt.Errorf("%s send failed: %s", channel, res.Error)
	}

	suffix := ""
	if res.Simulated {
		suffix = " (test mode, not sent)"
	}
	return writef(w, "%s to %s sent, message id %s%s\n", channel, to, res.MessageID, suffix)
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultMigrationTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultMigrationTimeout,
		"Maximum duration to wait for migrations to complete",
	)
	fs.BoolVar(&opts.List, "list", false, "Print embedded migration versions and exit")

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseHealthFlags(args []string) (healthOptions, error) {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts healthOptions
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration for both provider probes")

	if err := fs.Parse(args); err != nil {
		return healthOptions{}, err
	}
	if opts.Timeout <= 0 {
		return healthOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func parseAuditTrailFlags(args []string) (auditTrailOptions, error) {
	fs := flag.NewFlagSet("audit-trail", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts auditTrailOptions
	fs.StringVar(&opts.AlertID, "alert", "", "SOS alert id to inspect (required)")
	fs.BoolVar(&opts.JSON, "json", false, "Print records as JSON")

	if err := fs.Parse(args); err != nil {
		return auditTrailOptions{}, err
	}

	opts.AlertID = strings.TrimSpace(opts.AlertID)
	if opts.AlertID == "" {
		return auditTrailOptions{}, errors.New("--alert is required")
	}
	return opts, nil
}

func parseTestSMSFlags(args []string) (testSMSOptions, error) {
	fs := flag.NewFlagSet("send-test-sms", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts testSMSOptions
	fs.StringVar(&opts.To, "to", "", "Destination phone number in international format (required)")
	fs.StringVar(&opts.Message, "message", defaultTestSMSMessage, "Message text")

	if err := fs.Parse(args); err != nil {
		return testSMSOptions{}, err
	}

	opts.To = strings.TrimSpace(opts.To)
	if opts.To == "" {
		return testSMSOptions{}, errors.New("--to is required")
	}
	return opts, nil
}

func parseTestEmailFlags(args []string) (testEmailOptions, error) {
	fs := flag.NewFlagSet("send-test-email", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts testEmailOptions
	fs.StringVar(&opts.To, "to", "", "Destination email address (required)")
	fs.StringVar(&opts.Subject, "subject", defaultTestEmailSubject, "Email subject")
	fs.StringVar(&opts.Message, "message", defaultTestSMSMessage, "Email body text")

	if err := fs.Parse(args); err != nil {
		return testEmailOptions{}, err
	}

	opts.To = strings.TrimSpace(opts.To)
	if opts.To == "" {
		return testEmailOptions{}, errors.New("--to is required")
	}
	return opts, nil
}
