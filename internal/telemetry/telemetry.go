// Package telemetry keeps the catalog journal: an append-only JSONL file
// with one event per committed create, update or delete, per rejected
// candidate, and per manifest import.
package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Journal event kinds.
const (
	KindCreated  = "created"
	KindUpdated  = "updated"
	KindDeleted  = "deleted"
	KindRejected = "rejected"
	KindImported = "imported"
)

// Entity names used in events.
const (
	EntitySystem       = "system"
	EntityAssembly     = "assembly"
	EntityPart         = "part"
	EntityFeature      = "feature"
	EntityAssemblyItem = "assembly_item"
	EntityConnector    = "connector"
	EntityManifest     = "manifest"
)

// Event is one journal line: when it happened, what happened (Kind), to
// which entity, and an optional payload. For committed writes Data holds the
// stored record; for rejections it holds the reason.
type Event struct {
	Timestamp time.Time `json:"ts" yaml:"ts"`
	Kind      string    `json:"kind" yaml:"kind"`
	Entity    string    `json:"entity,omitempty" yaml:"entity,omitempty"`
	ID        int64     `json:"id,omitempty" yaml:"id,omitempty"`
	Data      any       `json:"data,omitempty" yaml:"data,omitempty"`
}

// Emitter appends events to a journal file, one JSON object per line.
// Writers may share an Emitter across goroutines. The zero value of
// *Emitter (nil) drops every event, so callers never need to check whether
// journaling is enabled.
type Emitter struct {
	mu  sync.Mutex
	out *os.File
	now func() time.Time
}

// NewEmitter opens the journal at path for appending, creating it with mode
// 0644 when absent.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{out: f, now: time.Now}, nil
}

// Emit appends evt, stamping it with the current UTC time when Timestamp is
// zero. Each event is written with a single write call.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	line, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("telemetry: encode %s event: %w", evt.Kind, err)
	}
	if _, err := e.out.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("telemetry: write: %w", err)
	}
	return nil
}

// Record is shorthand for emitting a kind event about entity #id.
func (e *Emitter) Record(kind, entity string, id int64, data any) error {
	return e.Emit(Event{Kind: kind, Entity: entity, ID: id, Data: data})
}

// Close closes the journal file. Closing a nil Emitter does nothing.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.out.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// ReadFile decodes every event in the journal at path, oldest first. Blank
// lines are skipped.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var evt Event
		if err := json.Unmarshal(sc.Bytes(), &evt); err != nil {
			return nil, fmt.Errorf("telemetry: %s line %d: %w", path, line, err)
		}
		events = append(events, evt)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("telemetry: read %s: %w", path, err)
	}
	return events, nil
}
