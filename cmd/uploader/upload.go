package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/go-andiamo/uploader"
	"go.uber.org/zap"
)

// invocation is a single run (or validate) of an upload job
type invocation struct {
	configPath string
	jobPath    string
	inputPath  string
	params     map[string]string
	logger     *zap.Logger
}

func (inv invocation) execute(ctx context.Context, out io.Writer, validateOnly bool) error {
	logger := inv.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg, err := LoadConfig(inv.configPath)
	if err != nil {
		return err
	}
	if err = cfg.Validate(!validateOnly); err != nil {
		return fmt.Errorf("invalid config %q: %w", inv.configPath, err)
	}
	catalog, _ := cfg.Catalog()
	dialect, _ := uploader.DialectFor(cfg.Database.Driver)
	policy, _ := uploader.ParseTxPolicy(cfg.Transaction)

	var db *sql.DB
	var lists uploader.ValueListProvider
	if cfg.Database.DSN != "" {
		if db, err = sql.Open(dialect.Name(), cfg.Database.DSN); err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		lists = uploader.NewSqlValueLists(db, cfg.ValueListQueries())
	}

	data, err := os.ReadFile(inv.jobPath)
	if err != nil {
		return fmt.Errorf("failed to read job: %w", err)
	}
	job, err := uploader.ParseJob(ctx, data, catalog, builtinFunctions(), lists, logger, uploader.Params(inv.params))
	if err != nil {
		return err
	}
	input, closeInput, err := openInput(inv.inputPath)
	if err != nil {
		return err
	}
	defer closeInput()
	source, err := newCsvSource(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	options := []any{logger, uploader.NullAsZero(cfg.NullAsZero)}
	if cfg.Limit > 0 {
		options = append(options, uploader.MaxRows(cfg.Limit))
	}
	if len(cfg.ExcludeFields) > 0 {
		options = append(options, uploader.ExcludeSchemaFields(cfg.ExcludeFields))
	}
	up, err := job.NewUploader(options...)
	if err != nil {
		return err
	}

	var summary *uploader.Summary
	if validateOnly {
		summary = up.Validate(ctx, source)
		err = summary.Cause
	} else {
		logger.Info("upload starting",
			zap.String("driver", dialect.Name()),
			zap.Stringer("transaction", policy),
			zap.Int("inserts", len(job.Mappings())))
		summary, err = uploader.RunInTransaction(ctx, db, up, source, dialect, policy)
	}
	if summary != nil {
		writeSummary(out, summary)
	}
	if err != nil {
		return err
	}
	if validateOnly && summary.Failed() > 0 {
		return fmt.Errorf("%d rows failed validation", summary.Failed())
	}
	return nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() {
		_ = f.Close()
	}, nil
}

func writeSummary(out io.Writer, summary *uploader.Summary) {
	_, _ = fmt.Fprintf(out, "job %s %s\n", summary.JobID, summary)
	for _, f := range summary.Failures {
		_, _ = fmt.Fprintf(out, "  row %d: %s\n", f.Row, f.Err)
	}
	if summary.Cause != nil {
		_, _ = fmt.Fprintf(out, "  aborted: %s\n", summary.Cause)
	}
}
