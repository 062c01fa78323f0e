package mc

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// Sample is one diagnostic point of a run.
type Sample struct {
	Iteration int
	Length    int
	RMSD      float64
	Score     float64
}

// HistorySink receives diagnostic samples. Append is called on the
// optimizer's goroutine and must not block on I/O.
type HistorySink interface {
	Append(Sample)
}

// Flusher is implemented by sinks that persist their samples once the run
// is over.
type Flusher interface {
	Flush() error
}

// csvHeader is the header row of exported histories.
var csvHeader = []string{"Step", "Length", "RMSD", "Score"}

// MemoryHistory buffers samples in memory. It is safe for concurrent use.
type MemoryHistory struct {
	mu      sync.Mutex
	samples []Sample
}

var _ HistorySink = (*MemoryHistory)(nil)

// NewMemoryHistory returns an empty buffer.
func NewMemoryHistory() *MemoryHistory { return &MemoryHistory{} }

// Append implements HistorySink.
func (h *MemoryHistory) Append(s Sample) {
	h.mu.Lock()
	h.samples = append(h.samples, s)
	h.mu.Unlock()
}

// Samples returns a copy of the buffered samples in arrival order.
func (h *MemoryHistory) Samples() []Sample {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]Sample(nil), h.samples...)
}

// WriteCSV writes the header "Step,Length,RMSD,Score" and one row per sample.
func (h *MemoryHistory) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range h.Samples() {
		row := []string{
			strconv.Itoa(s.Iteration),
			strconv.Itoa(s.Length),
			strconv.FormatFloat(s.RMSD, 'f', -1, 64),
			strconv.FormatFloat(s.Score, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// FlushTo writes the samples as CSV to path, replacing the file.
func (h *MemoryHistory) FlushTo(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("history: %w", cerr)
		}
	}()
	if err = h.WriteCSV(f); err != nil {
		return fmt.Errorf("history: write %s: %w", path, err)
	}

	return nil
}

// CSVFile buffers samples in memory and writes them to Path when flushed.
// The optimizer flushes it once at the end of Run; failures are logged and
// do not fail the run.
type CSVFile struct {
	MemoryHistory
	Path string
}

var (
	_ HistorySink = (*CSVFile)(nil)
	_ Flusher     = (*CSVFile)(nil)
)

// NewCSVFile returns a sink exporting to path.
func NewCSVFile(path string) *CSVFile { return &CSVFile{Path: path} }

// Flush implements Flusher.
func (f *CSVFile) Flush() error { return f.FlushTo(f.Path) }
