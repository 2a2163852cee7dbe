package tourprovider

import (
	"context"
	"sync"
	"time"
)

// Diagnostic describes one outbound request. URL must already be redacted.
type Diagnostic struct {
	URL        string
	HTTPStatus int
	Error      string
	At         time.Time
}

// DiagnosticSink receives a record of every outbound request.
type DiagnosticSink interface {
	Record(ctx context.Context, d Diagnostic)
}

type NopSink struct{}

func (NopSink) Record(context.Context, Diagnostic) {}

// LastRequestSink remembers the most recent request for the debug endpoint.
type LastRequestSink struct {
	mu   sync.RWMutex
	last Diagnostic
	set  bool
}

func NewLastRequestSink() *LastRequestSink {
	return &LastRequestSink{}
}

func (s *LastRequestSink) Record(_ context.Context, d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = d
	s.set = true
}

// Last returns the most recent record, ok is false before the first one.
func (s *LastRequestSink) Last() (Diagnostic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.last, s.set
}
