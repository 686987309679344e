package interp

import (
	"fmt"
	"io"
	"strings"
)

// Sink is the narrow output seam described in spec.md §6: the evaluator
// never writes to stdout directly, it only ever calls Accept on whatever
// sink the host supplied.
type Sink interface {
	Accept(rendered string)
}

// WriterSink adapts any io.Writer into a Sink, appending a trailing
// newline after each accepted value — the production binding used by the
// CLI to write to stdout.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink wraps w as a Sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Accept writes rendered followed by a newline to the wrapped writer.
func (s *WriterSink) Accept(rendered string) {
	fmt.Fprintln(s.w, rendered)
}

// BufferSink accumulates accepted strings in memory, one per line — the
// test binding described in spec.md §6.
type BufferSink struct {
	lines []string
}

// NewBufferSink creates an empty BufferSink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

// Accept appends rendered to the buffer.
func (s *BufferSink) Accept(rendered string) {
	s.lines = append(s.lines, rendered)
}

// String joins every accepted line with a trailing newline each, matching
// what WriterSink would have written to a writer.
func (s *BufferSink) String() string {
	if len(s.lines) == 0 {
		return ""
	}
	return strings.Join(s.lines, "\n") + "\n"
}

// Lines returns the accepted values in order, without trailing newlines.
func (s *BufferSink) Lines() []string {
	return s.lines
}
