package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/commentpanel/internal/adapter/driven/analyzer"
	sqliteadapter "github.com/ericfisherdev/commentpanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/commentpanel/internal/adapter/driving/terminal"
	"github.com/ericfisherdev/commentpanel/internal/application"
	"github.com/ericfisherdev/commentpanel/internal/config"
	"github.com/ericfisherdev/commentpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/commentpanel/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root pre-run has loaded
// configuration.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	printer *terminal.Printer
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var colorFlag string

	root := &cobra.Command{
		Use:   "commentpanel",
		Short: "YouTube comment sentiment panel",
		Long: `commentpanel analyzes the comments of a YouTube video through an external
sentiment backend and presents the result as a web panel, a JSON API, or
terminal output.

Example usage:
  commentpanel serve                                           # Run the panel at COMMENTPANEL_LISTEN_ADDR
  commentpanel analyze https://www.youtube.com/watch?v=VIDEO   # Analyze one video
  commentpanel analyze --sample                                # Load the backend's demo payload
  commentpanel runs --limit 5                                  # Show recent analysis runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := terminal.ParseColorMode(colorFlag)
			if err != nil {
				return err
			}
			useColors := terminal.ResolveColors(mode)

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			a.cfg = cfg
			a.logger = logging.Init(cmd.ErrOrStderr(), cfg.LogLevel, !useColors)
			a.printer = terminal.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColors)

			a.logger.Debug("config loaded",
				"api_base_url", cfg.APIBaseURL,
				"listen_addr", cfg.ListenAddr,
				"db_path", cfg.DBPath,
				"env_file", cfg.EnvFile,
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, or never")

	root.AddCommand(
		newServeCmd(a),
		newAnalyzeCmd(a),
		newHealthCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)
	return root
}

// openRunStore opens the history database and brings its schema up to date.
// The caller closes the returned DB.
func (a *app) openRunStore() (*sqliteadapter.DB, *sqliteadapter.RunRepo, error) {
	db, err := sqliteadapter.NewDB(a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	a.logger.Debug("database ready", "path", db.Path(), "schema_version", version)

	return db, sqliteadapter.NewRunRepo(db), nil
}

// newAnalysis wires the backend client, controller and service. store may be
// nil to skip run history.
func (a *app) newAnalysis(store driven.RunStore) (*application.AnalysisController, *application.AnalysisService) {
	client := analyzer.NewClient(a.cfg.APIBaseURL, a.cfg.HTTPTimeout)
	ctrl := application.NewAnalysisController(a.logger)
	svc := application.NewAnalysisService(ctrl, client, store, a.cfg.MaxComments, a.logger)
	return ctrl, svc
}

func (a *app) closeDB(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		a.logger.Error("error closing database", "error", err)
	}
}
