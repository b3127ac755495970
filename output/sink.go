package output

import (
	"strings"
	"sync"
)

// Sink presents a message. Implementations must not block on the guest.
type Sink interface {
	Write(msg string, sev Severity)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(msg string, sev Severity)

func (f SinkFunc) Write(msg string, sev Severity) {
	f(msg, sev)
}

type discardSink struct{}

func (discardSink) Write(string, Severity) {}

// Discard drops every message. It is comparable, so callers may test
// sink == Discard.
var Discard Sink = discardSink{}

type multiSink []Sink

func (m multiSink) Write(msg string, sev Severity) {
	for _, s := range m {
		s.Write(msg, sev)
	}
}

// Multi fans each message out to all sinks in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	out := make(multiSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Entry is a message captured by a Recorder.
type Entry struct {
	Message  string
	Severity Severity
}

// Recorder keeps every message it receives.
type Recorder struct {
	entries []Entry
	mu      sync.Mutex
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Write(msg string, sev Severity) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Message: msg, Severity: sev})
	r.mu.Unlock()
}

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Reset drops all captured messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

// String concatenates all captured messages.
func (r *Recorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var b strings.Builder
	for _, e := range r.entries {
		b.WriteString(e.Message)
	}
	return b.String()
}
