// Package cli implements the consentctl admin commands. They operate on the
// local database directly, bypassing the server.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rpggio/consentdesk/internal/app"
	"github.com/rpggio/consentdesk/internal/config"
	"github.com/rpggio/consentdesk/internal/logging"
	"github.com/rpggio/consentdesk/internal/query"
	"github.com/spf13/cobra"
)

// options are the resolved persistent flags.
type options struct {
	dbPath   string
	tenantID string
	output   string
	logLevel string
	cfg      config.Config
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}
	root := NewRootCmd(cfg)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the consentctl command tree. cfg supplies flag defaults.
func NewRootCmd(cfg config.Config) *cobra.Command {
	opts := &options{cfg: cfg}

	root := &cobra.Command{
		Use:           "consentctl",
		Short:         "Administer a consentdesk database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.output != "table" && opts.output != "json" {
				return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", opts.output)
			}
			if opts.tenantID == "" {
				return fmt.Errorf("tenant is required")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", cfg.DB.Path, "Database path")
	root.PersistentFlags().StringVarP(&opts.tenantID, "tenant", "t", cfg.Auth.DefaultTenant, "Tenant ID")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format (table, json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(newQueryCmd(opts))
	root.AddCommand(newDescribeCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newKeysCmd(opts))

	return root
}

// open opens the database and builds the services. Logs go to stderr.
func (o *options) open(cmd *cobra.Command) (*app.App, *slog.Logger, error) {
	logger := logging.New(cmd.ErrOrStderr(), o.logLevel)
	a, err := app.Open(o.dbPath, logger,
		query.WithWeekStart(o.cfg.Query.Weekday()),
		query.WithPageSize(o.cfg.Query.PageSize),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return a, logger, nil
}
