package record

import (
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"

	"strata/internal/trace"
)

// Summary describes a verified record file.
type Summary struct {
	Path     string
	Header   Header
	Events   uint32
	FirstSeq uint64
	LastSeq  uint64
	ByScope  map[string]uint32
}

// Verify validates one record file: header schema, decodable events, known
// kind/scope values and strictly increasing sequence numbers.
func Verify(path string) (Summary, error) {
	r, err := Open(path)
	if err != nil {
		return Summary{Path: path}, err
	}
	defer func() {
		_ = r.Close()
	}()

	sum := Summary{
		Path:    path,
		Header:  r.Header(),
		ByScope: make(map[string]uint32),
	}

	count := 0
	var lastSeq uint64
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("%s: event %d: %w", path, count+1, err)
		}
		count++

		kind := trace.Kind(ev.Kind)
		if kind < trace.KindSpanBegin || kind > trace.KindPoint {
			return sum, fmt.Errorf("%s: event %d: unknown kind %d", path, count, ev.Kind)
		}
		scope := trace.Scope(ev.Scope)
		if scope < trace.ScopeRuntime || scope > trace.ScopeGuard {
			return sum, fmt.Errorf("%s: event %d: unknown scope %d", path, count, ev.Scope)
		}
		if ev.Seq <= lastSeq {
			return sum, fmt.Errorf("%s: event %d: sequence %d not after %d", path, count, ev.Seq, lastSeq)
		}
		if count == 1 {
			sum.FirstSeq = ev.Seq
		}
		lastSeq = ev.Seq
		sum.ByScope[scope.String()]++
	}

	events, err := safecast.Conv[uint32](count)
	if err != nil {
		return sum, fmt.Errorf("%s: %w", path, err)
	}
	sum.Events = events
	sum.LastSeq = lastSeq
	return sum, nil
}
