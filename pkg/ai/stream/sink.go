package stream

import (
	"io"
	"strings"
	"sync"
)

// Sink receives a streamed model response. Exactly one of Close or Error
// is called, after which Write calls are ignored.
type Sink interface {
	Write(chunk string) error
	Close()
	Error(err error)
}

// GuardedSink wraps another sink and enforces the single-terminal-action
// contract, so orchestration code can call Close/Error defensively.
type GuardedSink struct {
	mu    sync.Mutex
	inner Sink
	done  bool
}

func NewGuardedSink(inner Sink) *GuardedSink {
	return &GuardedSink{inner: inner}
}

func (s *GuardedSink) Write(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil
	}
	return s.inner.Write(chunk)
}

func (s *GuardedSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	s.inner.Close()
}

func (s *GuardedSink) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.done = true
	s.inner.Error(err)
}

// WriterSink adapts an io.Writer (e.g. a chunked HTTP response body)
// into a Sink. The error callback writes a trailing marker so the client
// can tell a truncated stream from a completed one.
type WriterSink struct {
	w       io.Writer
	flusher func()
	onError func(err error)
}

func NewWriterSink(w io.Writer, flusher func(), onError func(err error)) *WriterSink {
	return &WriterSink{w: w, flusher: flusher, onError: onError}
}

func (s *WriterSink) Write(chunk string) error {
	if _, err := io.WriteString(s.w, chunk); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher()
	}
	return nil
}

func (s *WriterSink) Close() {}

func (s *WriterSink) Error(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}

// BufferSink accumulates everything written. Used in tests and when the
// full response is needed after streaming (persistence).
type BufferSink struct {
	mu     sync.Mutex
	buf    strings.Builder
	closed bool
	err    error
}

func (s *BufferSink) Write(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(chunk)
	return nil
}

func (s *BufferSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *BufferSink) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *BufferSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *BufferSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *BufferSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
