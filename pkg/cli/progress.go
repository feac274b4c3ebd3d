package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports batch submission progress. Each document ends in
// exactly one Done or Fail call.
type ProgressReporter interface {
	Start(total int)
	Done()
	Fail()
	Abort(err error)
	Finish()
}

// SimpleProgress renders a single-line progress bar with accepted and
// failed counts.
type SimpleProgress struct {
	mu       sync.Mutex
	total    int
	accepted int
	failed   int
	started  time.Time
	writer   io.Writer
}

// NewProgressReporter creates a progress reporter that writes to w.
// If w is nil, it defaults to os.Stdout.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &SimpleProgress{
		writer: w,
	}
}

// Start initializes the reporter for a batch of total documents.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.accepted = 0
	p.failed = 0
	p.started = time.Now()

	p.render()
}

// Done records one accepted document.
func (p *SimpleProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accepted++
	p.render()
}

// Fail records one rejected or failed document.
func (p *SimpleProgress) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	p.render()
}

// Abort reports that the batch stopped before every document was submitted.
func (p *SimpleProgress) Abort(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Batch aborted after %d of %d documents: %v\n",
		p.accepted+p.failed, p.total, err)
}

// Finish completes the progress line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.render()
	fmt.Fprintln(p.writer)
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	submitted := p.accepted + p.failed
	percent := float64(submitted) / float64(p.total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	elapsed := time.Since(p.started)
	rate := float64(submitted) / elapsed.Seconds()

	fmt.Fprintf(p.writer, "\rSubmitting: [%s] %d/%d", bar, submitted, p.total)
	if p.failed > 0 {
		fmt.Fprintf(p.writer, " (%d failed)", p.failed)
	}
	fmt.Fprintf(p.writer, " %.1f docs/s", rate)
}
