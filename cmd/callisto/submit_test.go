package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSubmission(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.json")
	writeFile(t, docPath, `{"doc_id":"d-1","owner_inn":"1234567890"}`)
	writeFile(t, filepath.Join(dir, "doc.sig"), "c2lnbmF0dXJl\n")

	// Explicit signature path
	doc, sig, err := loadSubmission(docPath, filepath.Join(dir, "doc.sig"))
	if err != nil {
		t.Fatalf("loadSubmission failed: %v", err)
	}
	if doc.DocID != "d-1" || doc.OwnerINN != "1234567890" {
		t.Errorf("Unexpected document: %+v", doc)
	}
	if sig != "c2lnbmF0dXJl" {
		t.Errorf("Expected trimmed signature, got %q", sig)
	}

	// Empty signature path defaults to <doc>.sig
	_, sig, err = loadSubmission(docPath, "")
	if err != nil {
		t.Fatalf("loadSubmission with default sig path failed: %v", err)
	}
	if sig != "c2lnbmF0dXJl" {
		t.Errorf("Expected default .sig lookup, got %q", sig)
	}
}

func TestLoadSubmission_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := loadSubmission(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("Expected error for missing document")
	}

	badPath := filepath.Join(dir, "bad.json")
	writeFile(t, badPath, "{not json")
	writeFile(t, filepath.Join(dir, "bad.sig"), "sig")
	if _, _, err := loadSubmission(badPath, ""); err == nil {
		t.Error("Expected error for invalid JSON")
	}

	noSigPath := filepath.Join(dir, "nosig.json")
	writeFile(t, noSigPath, "{}")
	if _, _, err := loadSubmission(noSigPath, ""); err == nil {
		t.Error("Expected error for missing signature file")
	}
}

func TestCollectBatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.json"), "{}")
	writeFile(t, filepath.Join(dir, "b.sig"), "sig")
	writeFile(t, filepath.Join(dir, "a.json"), "{}")
	writeFile(t, filepath.Join(dir, "a.sig"), "sig")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	pairs, err := collectBatch(dir)
	if err != nil {
		t.Fatalf("collectBatch failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(pairs))
	}
	// File-name order
	if filepath.Base(pairs[0].docPath) != "a.json" || filepath.Base(pairs[1].docPath) != "b.json" {
		t.Errorf("Unexpected order: %v", pairs)
	}
}

func TestCollectBatch_MissingSignature(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "orphan.json"), "{}")

	if _, err := collectBatch(dir); err == nil {
		t.Error("Expected error for document without a signature file")
	}
}

func TestSubmitCommandExists(t *testing.T) {
	if submitCmd == nil {
		t.Fatal("submitCmd is nil")
	}
	if submitCmd.Use != "submit" {
		t.Errorf("submitCmd.Use = %q, want %q", submitCmd.Use, "submit")
	}
	if submitCmd.RunE == nil {
		t.Error("submitCmd.RunE should not be nil")
	}
}
