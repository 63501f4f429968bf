package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"herowiki/internal/collector"
	"herowiki/internal/db"
	"herowiki/lib/requestcache"
	"herowiki/lib/restyutil"
	"herowiki/lib/sqliteutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var scrapeForce *bool

func init() {
	scrapeForce = scrapeCmd.Flags().BoolP("force", "f", false, "Scrape even when the database already exists.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--force]",
	Short: "Scrapes every hero site and writes the results to the database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !*scrapeForce && sqliteutil.Exists(cfg.Database.Target) {
			fmt.Fprintf(out, "%s already exists, pass --force to scrape again.\n", cfg.Database.Target)
			return nil
		}

		result, err := scrape(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(out)
		t.SetTitle("Enrichment")
		t.AppendHeader(table.Row{"Source", "Hero", "Status", "Reason"})
		for _, o := range result.Outcomes {
			if o.Status == collector.STATUS_APPLIED {
				continue
			}
			t.AppendRow(table.Row{o.Source, o.Hero, o.Status, o.Reason})
		}
		t.Render()

		fmt.Fprintf(out, "Scraped %d heroes, %d skipped.\n", len(result.Heroes), len(result.Skipped()))
		return nil
	},
}

// scrape collects every hero through the request cache and replaces the
// contents of the configured database with them.
func scrape(ctx context.Context) (collector.Result, error) {
	opts := cfg.FetcherOptions()
	if cfg.Http.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.Http.DumpDir)
		if err != nil {
			return collector.Result{}, err
		}
		opts.DumpOutput = output
	}
	fetcher := requestcache.NewFetcher(requestcache.NewStore(cfg.CachePath, tel), tel, opts)

	c, err := collector.New(fetcher, collector.Options{
		OfficialUrl:  cfg.Sites.Official,
		GamepediaUrl: cfg.Sites.Gamepedia,
		OverbuffUrl:  cfg.Sites.Overbuff,
	}, tel)
	if err != nil {
		return collector.Result{}, err
	}

	t1 := time.Now()
	result, err := c.Collect(ctx)
	if err != nil {
		return collector.Result{}, fmt.Errorf("failed to collect heroes: %w", err)
	}
	t2 := time.Now()

	hits, misses := fetcher.Stats()
	slog.Info(
		"scraping time",
		"seconds", t2.Sub(t1).Seconds(),
		"cache_hits", hits,
		"cache_misses", misses,
	)

	database, err := sqliteutil.Open(db.Schema, cfg.Database.Target, cfg.Database.AuthToken)
	if err != nil {
		return collector.Result{}, fmt.Errorf("failed to open db: %w", err)
	}
	defer database.Close()

	err = db.NewStore(database).Replace(ctx, result.Heroes)
	if err != nil {
		return collector.Result{}, fmt.Errorf("failed to write heroes: %w", err)
	}
	tel.ReportCount("scrape.heroes", int64(len(result.Heroes)))
	return result, nil
}
