package main

import (
	"context"
	"testing"
	"time"

	"truemark-hq/callisto/pkg/config"
	"truemark-hq/callisto/pkg/journal/storage"
)

func TestParseTimeRange(t *testing.T) {
	start, end, err := parseTimeRange("2026-08-01T00:00:00Z/2026-08-02T00:00:00Z")
	if err != nil {
		t.Fatalf("parseTimeRange failed: %v", err)
	}
	if !start.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected start: %v", start)
	}
	if !end.Equal(time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected end: %v", end)
	}
}

func TestParseTimeRange_Invalid(t *testing.T) {
	cases := []string{
		"",
		"2026-08-01T00:00:00Z",
		"not-a-time/2026-08-02T00:00:00Z",
		"2026-08-01T00:00:00Z/not-a-time",
		"a/b/c",
	}
	for _, tr := range cases {
		if _, _, err := parseTimeRange(tr); err == nil {
			t.Errorf("Expected error for %q", tr)
		}
	}
}

func TestJournalCommandsExist(t *testing.T) {
	if journalCmd == nil {
		t.Fatal("journalCmd is nil")
	}
	names := map[string]bool{}
	for _, sub := range journalCmd.Commands() {
		names[sub.Use] = true
	}
	if !names["list"] || !names["prune"] || !names["watch"] {
		t.Errorf("Expected list, prune and watch subcommands, got %v", names)
	}
}

func retentionTestConfig(days int) *config.Config {
	return &config.Config{
		Journal: config.JournalConfig{
			RetentionDays: days,
			PruneSchedule: "0 3 * * *",
		},
	}
}

func TestRetentionKeeper_StartsScheduler(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keeper := newRetentionKeeper(store)
	defer keeper.stop()

	if err := keeper.apply(ctx, retentionTestConfig(30)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if keeper.nextPruning() == nil {
		t.Error("Expected a scheduled next prune")
	}
}

func TestRetentionKeeper_SwapsPrunerOnSettingsChange(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keeper := newRetentionKeeper(store)
	defer keeper.stop()

	if err := keeper.apply(ctx, retentionTestConfig(30)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	first := keeper.pruner

	// Unchanged settings keep the running pruner
	if err := keeper.apply(ctx, retentionTestConfig(30)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if keeper.pruner != first {
		t.Error("Unchanged settings should not replace the pruner")
	}

	// Changed settings replace it
	if err := keeper.apply(ctx, retentionTestConfig(7)); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if keeper.pruner == first {
		t.Error("Changed retention settings should replace the pruner")
	}
	if keeper.nextPruning() == nil {
		t.Error("Expected the replacement pruner to be scheduled")
	}
}

func TestRetentionKeeper_RejectsInvalidSchedule(t *testing.T) {
	store := storage.NewMemoryStorage()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	keeper := newRetentionKeeper(store)
	defer keeper.stop()

	bad := retentionTestConfig(30)
	bad.Journal.PruneSchedule = "not a cron expression"
	if err := keeper.apply(ctx, bad); err == nil {
		t.Error("Expected an invalid cron schedule to be rejected")
	}
}
