package render

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/sysarch/internal/telemetry"
)

// Created writes the id assigned to a new entity. kind is written as is,
// for example "assembly item".
func (r *Renderer) Created(kind string, id int64) error {
	if ok, err := r.encode(struct {
		Kind string `json:"kind" yaml:"kind"`
		ID   int64  `json:"id" yaml:"id"`
	}{kind, id}); ok {
		return err
	}
	r.printf("Created %s with ID: %d\n", kind, id)
	return nil
}

// DBInfo describes a catalog database file.
type DBInfo struct {
	Path   string           `json:"path" yaml:"path"`
	Size   int64            `json:"size_bytes" yaml:"size_bytes"`
	Tables map[string]int64 `json:"tables" yaml:"tables"`
}

// Info writes database location, size and per-table row counts. Tables are
// listed in the order given by order; unknown tables follow alphabetically.
func (r *Renderer) Info(info DBInfo, order []string) error {
	if ok, err := r.encode(info); ok {
		return err
	}
	r.printf("%s %s %s\n", r.st.heading.Render("Database:"), info.Path,
		r.st.muted.Render("("+humanize.Bytes(uint64(max(info.Size, 0)))+")"))
	r.printf("%s\n", rule)
	names := slices.Clone(order)
	var rest []string
	for name := range info.Tables {
		if !slices.Contains(order, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	for _, name := range append(names, rest...) {
		r.printf("%-16s %s\n", name+":", humanize.Comma(info.Tables[name]))
	}
	return nil
}

// Imported writes the result of a manifest import. ids is encoded as is in
// the structured formats; text shows counts only.
func (r *Renderer) Imported(source string, ids any, counts map[string]int) error {
	if ok, err := r.encode(ids); ok {
		return err
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	if source == "" {
		source = "manifest"
	}
	r.printf("Imported %s: %s\n", source, strings.Join(parts, ", "))
	return nil
}

// Events writes journal events, oldest first.
func (r *Renderer) Events(events []telemetry.Event, now time.Time) error {
	if ok, err := r.encode(nonNil(events)); ok {
		return err
	}
	if len(events) == 0 {
		r.printf("No journal events.\n")
		return nil
	}
	for _, e := range events {
		subject := e.Entity
		if e.ID != 0 {
			subject = fmt.Sprintf("%s #%d", e.Entity, e.ID)
		}
		kind := r.st.instance.Render(fmt.Sprintf("%-8s", e.Kind))
		if e.Kind == telemetry.KindRejected {
			kind = r.st.danger.Render(fmt.Sprintf("%-8s", e.Kind))
		}
		r.printf("%s  %s %s %s\n",
			e.Timestamp.Format(time.RFC3339), kind, subject,
			r.st.muted.Render("("+humanize.RelTime(e.Timestamp, now, "ago", "from now")+")"))
	}
	return nil
}
