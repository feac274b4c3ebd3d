package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"truemark-hq/callisto/pkg/cli"
	"truemark-hq/callisto/pkg/config"
	"truemark-hq/callisto/pkg/journal"
	"truemark-hq/callisto/pkg/journal/retention"
)

var journalFlags struct {
	operation string
	status    string
	docType   string
	timeRange string
	limit     int
	offset    int
	format    string
	dryRun    bool
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect and maintain the submission journal",
	Long: `Inspect and maintain the submission journal.

Every document submission and authentication attempt is journaled with
its outcome, HTTP status, and how long the admission gate held it.
Request bodies and signatures are stored as SHA-256 hashes only.

Subcommands:
  list   - Query journal records with filters
  prune  - Apply the configured retention policy now
  watch  - Run scheduled retention until interrupted

Examples:
  # Show the most recent submissions
  callisto journal list

  # Only rejected document submissions
  callisto journal list --operation create_document --status rejected

  # Records from a specific day, as JSON
  callisto journal list --time-range "2026-08-01T00:00:00Z/2026-08-02T00:00:00Z" --format json

  # Enforce retention without waiting for the schedule
  callisto journal prune

  # Keep retention running per journal.prune_schedule
  callisto journal watch`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Query journal records",
	RunE:  listJournal,
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy to the journal",
	RunE:  pruneJournal,
}

var journalWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled journal retention until interrupted",
	Long: `Run the retention scheduler in the foreground.

Pruning runs per the journal.prune_schedule cron expression. The
configuration file is watched for changes: editing the retention settings
takes effect without restarting.`,
	RunE: watchJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd, journalPruneCmd, journalWatchCmd)

	journalListCmd.Flags().StringVar(&journalFlags.operation, "operation", "", "filter by operation (create_document, authenticate)")
	journalListCmd.Flags().StringVar(&journalFlags.status, "status", "", "filter by status (accepted, rejected, failed, cancelled)")
	journalListCmd.Flags().StringVar(&journalFlags.docType, "doc-type", "", "filter by document type")
	journalListCmd.Flags().StringVar(&journalFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	journalListCmd.Flags().IntVar(&journalFlags.limit, "limit", 100, "max results")
	journalListCmd.Flags().IntVar(&journalFlags.offset, "offset", 0, "pagination offset")
	journalListCmd.Flags().StringVar(&journalFlags.format, "format", "text", "output format: text, json")

	journalPruneCmd.Flags().BoolVar(&journalFlags.dryRun, "dry-run", false, "report what would be deleted without deleting")
}

func listJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openJournalStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	query := &journal.Query{
		Operation:    journalFlags.operation,
		Status:       journalFlags.status,
		DocumentType: journalFlags.docType,
		Limit:        journalFlags.limit,
		Offset:       journalFlags.offset,
	}

	if journalFlags.timeRange != "" {
		start, end, err := parseTimeRange(journalFlags.timeRange)
		if err != nil {
			return cli.NewCommandError("journal", err)
		}
		query.StartTime = &start
		query.EndTime = &end
	}

	ctx := context.Background()
	records, err := store.Query(ctx, query)
	if err != nil {
		return cli.NewCommandError("journal", fmt.Errorf("query failed: %w", err))
	}

	if journalFlags.format == "json" {
		formatter := cli.NewFormatter(cli.FormatJSON)
		return formatter.FormatTo(os.Stdout, map[string]interface{}{
			"total_records": len(records),
			"records":       records,
		})
	}

	if len(records) == 0 {
		fmt.Println("No journal records found.")
		return nil
	}

	if err := cli.WriteRecordTable(os.Stdout, records); err != nil {
		return err
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func pruneJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openJournalStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if journalFlags.dryRun {
		if cfg.Journal.RetentionDays <= 0 {
			fmt.Println("Retention is disabled (retention_days = 0), nothing to prune.")
			return nil
		}
		cutoff := time.Now().AddDate(0, 0, -cfg.Journal.RetentionDays)
		count, err := store.Count(ctx, &journal.Query{EndTime: &cutoff})
		if err != nil {
			return cli.NewCommandError("journal", fmt.Errorf("count failed: %w", err))
		}
		fmt.Printf("Would delete %d records older than %s\n",
			count, cutoff.Format(time.RFC3339))
		return nil
	}

	pruner := retention.NewPruner(store, &retention.Config{
		RetentionDays: cfg.Journal.RetentionDays,
		MaxRecords:    cfg.Journal.MaxRecords,
	})

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		return cli.NewCommandError("journal", err)
	}

	fmt.Printf("✓ Pruned %d journal records\n", deleted)
	return nil
}

func watchJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.PruneSchedule == "" {
		return cli.NewConfigError("journal.prune_schedule", "a cron schedule is required for watch mode")
	}

	store, err := openJournalStorage(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cli.SetupSignalHandler()

	keeper := newRetentionKeeper(store)
	if err := keeper.apply(ctx, cfg); err != nil {
		return cli.NewCommandError("journal", err)
	}
	defer keeper.stop()

	watcher, err := config.NewWatcher(cfgFile, func(next *config.Config) {
		if err := keeper.apply(ctx, next); err != nil {
			fmt.Fprintf(os.Stderr, "retention settings not applied: %v\n", err)
		}
	})
	if err != nil {
		return cli.NewCommandError("journal", err)
	}
	defer watcher.Close()

	if next := keeper.nextPruning(); next != nil {
		fmt.Printf("Retention scheduler running, next prune at %s\n", next.Format(time.RFC3339))
	}
	fmt.Println("Watching configuration for changes. Press Ctrl+C to stop.")

	<-ctx.Done()
	fmt.Println("\nShutting down.")
	return nil
}

// retentionKeeper owns the running pruner and swaps it when a configuration
// reload changes the retention settings.
type retentionKeeper struct {
	store journal.Storage

	mu     sync.Mutex
	cfg    retention.Config
	pruner *retention.Pruner
}

func newRetentionKeeper(store journal.Storage) *retentionKeeper {
	return &retentionKeeper{store: store}
}

// apply starts a pruner for cfg's retention settings. An unchanged
// configuration keeps the running pruner and its schedule untouched.
func (k *retentionKeeper) apply(ctx context.Context, cfg *config.Config) error {
	next := retention.Config{
		RetentionDays: cfg.Journal.RetentionDays,
		MaxRecords:    cfg.Journal.MaxRecords,
		PruneSchedule: cfg.Journal.PruneSchedule,
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if k.pruner != nil && next == k.cfg {
		return nil
	}
	if k.pruner != nil {
		k.pruner.Stop()
	}

	pruner := retention.NewPruner(k.store, &next)
	if err := pruner.Start(ctx); err != nil {
		return err
	}
	k.pruner = pruner
	k.cfg = next
	return nil
}

func (k *retentionKeeper) stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.pruner != nil {
		k.pruner.Stop()
	}
}

func (k *retentionKeeper) nextPruning() *time.Time {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.pruner == nil {
		return nil
	}
	return k.pruner.NextPruning()
}

// parseTimeRange splits an RFC3339 interval ("start/end") into its bounds.
func parseTimeRange(timeRange string) (time.Time, time.Time, error) {
	parts := strings.Split(timeRange, "/")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time range format (expected: start/end)")
	}

	start, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}

	return start, end, nil
}
