package record

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
)

// Reader decodes a record file sequentially.
type Reader struct {
	f      *os.File
	dec    *msgpack.Decoder
	header Header
}

// Open reads and validates the header of a record file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec := msgpack.NewDecoder(f)
	var h Header
	if err := dec.Decode(&h); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: missing header: %w", path, err)
	}
	if h.Schema != SchemaVersion {
		_ = f.Close()
		return nil, fmt.Errorf("%s: unsupported schema version %d", path, h.Schema)
	}
	return &Reader{f: f, dec: dec, header: h}, nil
}

// Header returns the file header.
func (r *Reader) Header() Header {
	return r.header
}

// Next decodes the next event; io.EOF signals a clean end of file.
func (r *Reader) Next() (Event, error) {
	var ev Event
	if err := r.dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return Event{}, io.EOF
		}
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// ReadFile loads a whole record file into memory.
func ReadFile(path string) (Header, []Event, error) {
	r, err := Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	var events []Event
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return r.header, events, nil
		}
		if err != nil {
			return r.header, events, err
		}
		events = append(events, ev)
	}
}
