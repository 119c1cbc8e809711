package writer

import (
	"fmt"

	"github.com/rickgao/xiv-marketboard/internal/config"
)

// ConflictMode selects what happens when a row's key already exists.
type ConflictMode string

const (
	// Ignore keeps the stored row.
	Ignore ConflictMode = "ignore"
	// Update overwrites non-key columns with the new values.
	Update ConflictMode = "update"
)

// WriterConfig holds writer settings.
type WriterConfig struct {
	// BindLimit caps bound parameters per statement. 0 uses the dialect maximum.
	BindLimit int

	// OnConflict selects insert-ignore or upsert-with-overwrite.
	OnConflict ConflictMode
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		OnConflict: Ignore,
	}
}

// FromConfig converts the file config section.
func FromConfig(cfg config.WriterConfig) WriterConfig {
	mode := ConflictMode(cfg.OnConflict)
	if mode == "" {
		mode = Ignore
	}
	return WriterConfig{BindLimit: cfg.BindLimit, OnConflict: mode}
}

// WriterMetrics tracks cumulative writer activity.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64 // Statements executed
}

// Result reports the outcome of one write call.
// In Update mode every written row counts as inserted.
type Result struct {
	Inserted int64
	Ignored  int64
}

// Add accumulates another result.
func (r *Result) Add(o Result) {
	r.Inserted += o.Inserted
	r.Ignored += o.Ignored
}

// PersistenceError is returned when a chunk fails to write.
// Chunks after the failed one are not attempted.
type PersistenceError struct {
	Table  string
	Chunk  int // 0-based chunk index
	Offset int // Index of the chunk's first row in the input
	Rows   int
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write %s chunk %d (rows %d-%d): %v",
		e.Table, e.Chunk, e.Offset, e.Offset+e.Rows-1, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
