package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var (
	flagConfig  string
	flagJob     string
	flagInput   string
	flagVerbose bool
	flagParams  map[string]string

	logger *zap.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "uploader.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&flagJob, "job", "j", "", "upload job (JSON) file")
	rootCmd.PersistentFlags().StringVarP(&flagInput, "input", "i", "-", "input CSV file (- for stdin)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringToStringVarP(&flagParams, "param", "p", nil, "job parameter (name=value) - overrides the job's params")
	_ = rootCmd.MarkPersistentFlagRequired("job")

	rootCmd.AddCommand(runCmd, validateCmd)
}

var rootCmd = &cobra.Command{
	Use:   "uploader",
	Short: "Bulk upload of tabular data through declarative mappings",
	Long: `Reads rows from a CSV file, maps each row into one or more records using the
inserts of an upload job and writes them to the configured database.

Rows that fail are reported (with their 1-based row number) and skipped - the
upload continues unless the failure is fatal (e.g. a lost connection).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if flagVerbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Upload the input rows to the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return currentInvocation().execute(cmd.Context(), cmd.OutOrStdout(), false)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Map the input rows without writing anything (reports failing rows)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return currentInvocation().execute(cmd.Context(), cmd.OutOrStdout(), true)
	},
}

func currentInvocation() invocation {
	return invocation{
		configPath: flagConfig,
		jobPath:    flagJob,
		inputPath:  flagInput,
		params:     flagParams,
		logger:     logger,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
