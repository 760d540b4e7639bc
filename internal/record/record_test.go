package record

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"strata/internal/trace"
)

func writeSample(t *testing.T, path string, n int) {
	t.Helper()
	rec, err := NewRecorder(path, trace.LevelDebug)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	for i := 0; i < n; i++ {
		rec.Emit(trace.Event{
			Time:      time.Now(),
			Kind:      trace.KindPoint,
			Scope:     trace.ScopePatch,
			Namespace: "mod",
			Name:      "f",
			Detail:    "guard",
		})
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestRecorderRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.mp")
	writeSample(t, path, 3)

	header, events, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if header.Schema != SchemaVersion || header.Tool != "strata" {
		t.Fatalf("bad header: %+v", header)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, ev := range events {
		back := ev.ToTrace()
		if back.Scope != trace.ScopePatch || back.Namespace != "mod" || back.Name != "f" {
			t.Fatalf("event %d corrupted: %+v", i, back)
		}
		if i > 0 && events[i].Seq <= events[i-1].Seq {
			t.Fatalf("sequence not increasing at %d", i)
		}
	}
}

func TestRecorderLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.mp")
	rec, err := NewRecorder(path, trace.LevelPatch)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	rec.Emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopePatch, Name: "kept"})
	rec.Emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopeCall, Name: "dropped"})
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	_, events, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 1 || events[0].Name != "kept" {
		t.Fatalf("level filter failed: %+v", events)
	}
}

func TestRecorderAtomicFinalize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.mp")
	rec, err := NewRecorder(path, trace.LevelDebug)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("destination must not exist before Close")
	}
	rec.Emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopeCall, Name: "f"})
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("destination missing after Close: %v", err)
	}
}

func TestVerifyGoodFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.mp")
	writeSample(t, path, 5)

	sum, err := Verify(path)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sum.Events != 5 {
		t.Fatalf("events = %d, want 5", sum.Events)
	}
	if sum.ByScope["patch"] != 5 {
		t.Fatalf("scope counts wrong: %+v", sum.ByScope)
	}
	if sum.FirstSeq == 0 || sum.LastSeq < sum.FirstSeq {
		t.Fatalf("sequence summary wrong: %+v", sum)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.mp")
	if err := os.WriteFile(path, []byte("not msgpack at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Verify(path); err == nil {
		t.Fatal("expected header error for garbage file")
	}
}

func TestReaderCleanEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.mp")
	writeSample(t, path, 1)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() {
		_ = r.Close()
	}()
	if _, err := r.Next(); err != nil {
		t.Fatalf("first event: %v", err)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("want io.EOF, got %v", err)
	}
}
