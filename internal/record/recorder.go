package record

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"strata/internal/trace"
)

// Recorder streams trace events into a msgpack record file. Events are
// written to a temp file in the destination directory; Close renames it into
// place, so readers only ever see complete files.
type Recorder struct {
	mu    sync.Mutex
	level trace.Level
	path  string
	tmp   *os.File
	enc   *msgpack.Encoder
	count uint64
	err   error
}

// NewRecorder opens a record file for writing and emits the header.
func NewRecorder(path string, level trace.Level) (*Recorder, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return nil, err
	}
	r := &Recorder{
		level: level,
		path:  path,
		tmp:   f,
		enc:   msgpack.NewEncoder(f),
	}
	header := Header{
		Schema:      SchemaVersion,
		Tool:        "strata",
		Level:       uint8(level),
		CreatedUnix: time.Now().Unix(),
	}
	if err := r.enc.Encode(&header); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return nil, err
	}
	return r, nil
}

// Emit appends one event. Write failures are remembered and reported by
// Close; recording must never disturb dispatch.
func (r *Recorder) Emit(ev trace.Event) {
	if !r.level.ShouldEmit(ev.Scope) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = trace.NextSeq()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil || r.tmp == nil {
		return
	}
	stored := fromTrace(ev)
	if err := r.enc.Encode(&stored); err != nil {
		r.err = err
		return
	}
	r.count++
}

// Flush syncs written events to disk.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tmp == nil {
		return r.err
	}
	if err := r.tmp.Sync(); err != nil && r.err == nil {
		r.err = err
	}
	return r.err
}

// Close finalizes the record file, atomically replacing the destination.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tmp == nil {
		return r.err
	}
	tmp := r.tmp
	r.tmp = nil

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		if r.err == nil {
			r.err = err
		}
		return r.err
	}
	if r.err != nil {
		_ = os.Remove(tmp.Name())
		return r.err
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		_ = os.Remove(tmp.Name())
		r.err = fmt.Errorf("finalize record %s: %w", r.path, err)
		return r.err
	}
	return nil
}

// Level returns the recording level.
func (r *Recorder) Level() trace.Level {
	return r.level
}

// Enabled reports whether the recorder accepts events.
func (r *Recorder) Enabled() bool {
	return r.level > trace.LevelOff
}

// Count returns the number of events written so far.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
