// Package record persists dispatch trace events to msgpack log files (.mp).
// A Recorder is itself a trace.Tracer, so it plugs into the runtime like any
// other sink; readers and the verifier consume the files offline.
package record

import (
	"time"

	"strata/internal/trace"
)

// Current schema version - increment when the on-disk format changes.
const SchemaVersion uint16 = 1

// Header opens every record file.
type Header struct {
	Schema      uint16
	Tool        string
	Level       uint8
	CreatedUnix int64
}

// Event is the on-disk form of a trace event.
type Event struct {
	Seq       uint64
	TimeNanos int64
	Kind      uint8
	Scope     uint8
	Namespace string
	Name      string
	Detail    string
}

func fromTrace(ev trace.Event) Event {
	return Event{
		Seq:       ev.Seq,
		TimeNanos: ev.Time.UnixNano(),
		Kind:      uint8(ev.Kind),
		Scope:     uint8(ev.Scope),
		Namespace: ev.Namespace,
		Name:      ev.Name,
		Detail:    ev.Detail,
	}
}

// ToTrace converts a stored event back to its in-memory form.
func (e Event) ToTrace() trace.Event {
	return trace.Event{
		Time:      time.Unix(0, e.TimeNanos),
		Seq:       e.Seq,
		Kind:      trace.Kind(e.Kind),
		Scope:     trace.Scope(e.Scope),
		Namespace: e.Namespace,
		Name:      e.Name,
		Detail:    e.Detail,
	}
}
