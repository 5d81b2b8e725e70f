package pipeline

import (
	"context"
	"sync"
)

// Stream is a lazy, finite, non-restartable sequence of answer fragments.
// The full answer is the concatenation of all fragments. The producer pushes
// until generation ends or the consumer closes the stream; the fragment
// channel is always eventually closed.
type Stream struct {
	fragments chan string
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newStream(parent context.Context) *Stream {
	ctx, cancel := context.WithCancel(parent)
	return &Stream{
		fragments: make(chan string, 8),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Fragments returns the channel of answer fragments. It is closed when
// generation completes, fails, or the stream is closed.
func (s *Stream) Fragments() <-chan string {
	return s.fragments
}

// Close cancels the stream. The producer observes the cancellation and stops
// generating promptly; already-buffered fragments may still be drained.
func (s *Stream) Close() {
	s.cancel()
}

// send delivers one fragment, giving up when the stream is cancelled.
func (s *Stream) send(fragment string) error {
	select {
	case s.fragments <- fragment:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// finish closes the fragment channel. Safe to call more than once.
func (s *Stream) finish() {
	s.closeOnce.Do(func() {
		close(s.fragments)
		s.cancel()
	})
}
