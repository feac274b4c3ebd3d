package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSimpleProgress_CountsOutcomes(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(3)
	progress.Done()
	progress.Fail()
	progress.Done()
	progress.Finish()

	output := buf.String()
	if !strings.Contains(output, "Submitting:") {
		t.Error("Expected output to contain 'Submitting:'")
	}
	if !strings.Contains(output, "3/3") {
		t.Errorf("Expected final count 3/3, got %q", output)
	}
	if !strings.Contains(output, "(1 failed)") {
		t.Errorf("Expected failed count in output, got %q", output)
	}
}

func TestSimpleProgress_NoFailureNoteWhenAllAccepted(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(2)
	progress.Done()
	progress.Done()
	progress.Finish()

	if strings.Contains(buf.String(), "failed") {
		t.Errorf("Expected no failure note, got %q", buf.String())
	}
}

func TestSimpleProgress_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	// Zero total must not panic or divide by zero
	progress.Start(0)
	progress.Done()
	progress.Finish()
}

func TestSimpleProgress_Abort(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf)

	progress.Start(10)
	progress.Done()
	progress.Done()
	progress.Abort(errors.New("interrupted"))

	output := buf.String()
	if !strings.Contains(output, "aborted after 2 of 10") {
		t.Errorf("Expected abort position in output, got %q", output)
	}
	if !strings.Contains(output, "interrupted") {
		t.Errorf("Expected abort cause in output, got %q", output)
	}
}

func TestSimpleProgress_ConcurrentOutcomes(t *testing.T) {
	buf := &bytes.Buffer{}
	progress := NewProgressReporter(buf).(*SimpleProgress)

	progress.Start(100)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 10; j++ {
				progress.Done()
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
	progress.Finish()

	if progress.accepted != 100 {
		t.Errorf("Expected 100 accepted, got %d", progress.accepted)
	}
	if !strings.Contains(buf.String(), "100/100") {
		t.Error("Expected final count 100/100 in output")
	}
}

func TestNewProgressReporter_NilWriter(t *testing.T) {
	// Should default to stdout, not panic
	progress := NewProgressReporter(nil)
	if progress == nil {
		t.Fatal("NewProgressReporter(nil) should not return nil")
	}
}
