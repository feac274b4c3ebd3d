package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"truemark-hq/callisto/pkg/journal"
)

func testRecord(operation, status string, submittedAt time.Time) *journal.Record {
	return &journal.Record{
		ID:            uuid.New().String(),
		Operation:     operation,
		DocumentID:    "doc-123",
		DocumentType:  "LP_INTRODUCE_GOODS",
		ProductGroup:  "clothes",
		RequestHash:   "aabbcc",
		SignatureHash: "ddeeff",
		HTTPStatus:    200,
		Status:        status,
		ResultValue:   "value-1",
		GateWait:      25 * time.Millisecond,
		SubmittedAt:   submittedAt,
		RecordedAt:    submittedAt.Add(time.Millisecond),
	}
}

// backends returns both storage implementations so the shared behavior is
// tested against each.
func backends(t *testing.T) map[string]journal.Storage {
	t.Helper()

	sqlite, err := NewSQLiteStorage(&SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "journal.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLiteStorage failed: %v", err)
	}

	return map[string]journal.Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func TestStorage_StoreAndQuery(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()

			record := testRecord("create_document", journal.StatusAccepted, time.Now().Truncate(time.Second))
			if err := s.Store(ctx, record); err != nil {
				t.Fatalf("Store failed: %v", err)
			}

			records, err := s.Query(ctx, &journal.Query{})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(records))
			}

			got := records[0]
			if got.ID != record.ID {
				t.Errorf("ID mismatch: got %q, want %q", got.ID, record.ID)
			}
			if got.Operation != "create_document" || got.Status != journal.StatusAccepted {
				t.Errorf("Unexpected record: %+v", got)
			}
			if got.RequestHash != "aabbcc" || got.SignatureHash != "ddeeff" {
				t.Errorf("Hashes not preserved: %+v", got)
			}
			if got.GateWait != 25*time.Millisecond {
				t.Errorf("GateWait not preserved: %v", got.GateWait)
			}
		})
	}
}

func TestStorage_QueryFilters(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()
			now := time.Now().Truncate(time.Second)

			if err := s.Store(ctx, testRecord("create_document", journal.StatusAccepted, now)); err != nil {
				t.Fatal(err)
			}
			if err := s.Store(ctx, testRecord("create_document", journal.StatusRejected, now.Add(time.Second))); err != nil {
				t.Fatal(err)
			}
			if err := s.Store(ctx, testRecord("authenticate", journal.StatusAccepted, now.Add(2*time.Second))); err != nil {
				t.Fatal(err)
			}

			records, err := s.Query(ctx, &journal.Query{Operation: "create_document"})
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 2 {
				t.Errorf("Operation filter: expected 2 records, got %d", len(records))
			}

			records, err = s.Query(ctx, &journal.Query{Status: journal.StatusRejected})
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 {
				t.Errorf("Status filter: expected 1 record, got %d", len(records))
			}

			cutoff := now.Add(1500 * time.Millisecond)
			records, err = s.Query(ctx, &journal.Query{StartTime: &cutoff})
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 1 || records[0].Operation != "authenticate" {
				t.Errorf("StartTime filter: unexpected result %+v", records)
			}
		})
	}
}

func TestStorage_QueryOrderAndLimit(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()
			base := time.Now().Truncate(time.Second)

			for i := 0; i < 5; i++ {
				r := testRecord("create_document", journal.StatusAccepted, base.Add(time.Duration(i)*time.Second))
				if err := s.Store(ctx, r); err != nil {
					t.Fatal(err)
				}
			}

			records, err := s.Query(ctx, &journal.Query{Limit: 2})
			if err != nil {
				t.Fatal(err)
			}
			if len(records) != 2 {
				t.Fatalf("Expected 2 records, got %d", len(records))
			}
			// Newest first
			if !records[0].SubmittedAt.After(records[1].SubmittedAt) {
				t.Errorf("Expected newest-first ordering: %v then %v",
					records[0].SubmittedAt, records[1].SubmittedAt)
			}
		})
	}
}

func TestStorage_CountAndDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			ctx := context.Background()
			now := time.Now().Truncate(time.Second)

			for i := 0; i < 3; i++ {
				if err := s.Store(ctx, testRecord("create_document", journal.StatusAccepted, now.Add(time.Duration(i)*time.Second))); err != nil {
					t.Fatal(err)
				}
			}

			count, err := s.Count(ctx, &journal.Query{})
			if err != nil {
				t.Fatal(err)
			}
			if count != 3 {
				t.Errorf("Expected count 3, got %d", count)
			}

			cutoff := now.Add(500 * time.Millisecond)
			deleted, err := s.Delete(ctx, &journal.Query{EndTime: &cutoff})
			if err != nil {
				t.Fatal(err)
			}
			if deleted != 1 {
				t.Errorf("Expected 1 deleted, got %d", deleted)
			}

			count, err = s.Count(ctx, &journal.Query{})
			if err != nil {
				t.Fatal(err)
			}
			if count != 2 {
				t.Errorf("Expected count 2 after delete, got %d", count)
			}
		})
	}
}

func TestSQLiteStorage_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := NewSQLiteStorage(&SQLiteConfig{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	record := testRecord("create_document", journal.StatusAccepted, time.Now().Truncate(time.Second))
	if err := s.Store(ctx, record); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewSQLiteStorage(&SQLiteConfig{Path: path})
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer s.Close()

	count, err := s.Count(ctx, &journal.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected record to survive reopen, count = %d", count)
	}
}

func TestSQLiteStorage_EmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(&SQLiteConfig{Path: ""}); err == nil {
		t.Error("Expected empty path to fail")
	}
}
