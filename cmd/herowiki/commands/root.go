package commands

import (
	"context"
	"fmt"
	"time"

	"herowiki/internal/components/telemetry"
	"herowiki/internal/config"
	"herowiki/internal/db"
	"herowiki/lib/sqliteutil"
	libtelemetry "herowiki/lib/telemetry"
	"herowiki/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	dbTarget   *string
	cachePath  *string
)

// cfg and tel are set up once per invocation by the root command.
var (
	cfg       config.Config
	tel       telemetry.API = telemetry.SlogAPI{}
	providers libtelemetry.Telemetry
)

func init() {
	flags := rootCmd.PersistentFlags()
	configPath = flags.String("config", config.DefaultPath, "The json5 configuration file to read.")
	verbose = flags.BoolP("verbose", "v", false, "Log debug information, including every cache hit and fetch.")
	dbTarget = flags.String("db", "", "The sqlite file or libsql url holding the scraped heroes.")
	cachePath = flags.String("cache", "", "The json file caching fetched pages.")
}

var rootCmd = &cobra.Command{
	Use:   "herowiki",
	Short: "herowiki scrapes Overwatch hero data and lets you browse it.",

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(*verbose)

		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		if *dbTarget != "" {
			loaded.Database.Target = *dbTarget
		}
		if *cachePath != "" {
			loaded.CachePath = *cachePath
		}
		cfg = loaded

		providers, err = libtelemetry.Setup(cmd.Context(), "herowiki", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("failed to setup telemetry: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return providers.Shutdown(ctx)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("herowiki failed", err)
	}
}

// openStore opens the configured database, scraping it first when it does
// not exist yet.
func openStore(ctx context.Context) (db.Store, func(), error) {
	if !sqliteutil.Exists(cfg.Database.Target) {
		tel.ReportDebug("database missing, scraping first", cfg.Database.Target)
		_, err := scrape(ctx)
		if err != nil {
			return db.Store{}, nil, err
		}
	}

	database, err := sqliteutil.Open(db.Schema, cfg.Database.Target, cfg.Database.AuthToken)
	if err != nil {
		return db.Store{}, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return db.NewStore(database), func() { database.Close() }, nil
}
