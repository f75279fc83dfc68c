package events

import (
	"context"
	"errors"
	"sync"
)

var ErrPublisherClosed = errors.New("publisher is closed")

// InMemoryPublisher buffers events in a channel. It backs tests and
// single-process deployments that only need the events for the lifetime of
// the server.
type InMemoryPublisher struct {
	mu     sync.Mutex
	ch     chan *Event
	closed bool
}

// NewInMemoryPublisher creates a publisher with the given buffer size.
func NewInMemoryPublisher(bufferSize int) *InMemoryPublisher {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	return &InMemoryPublisher{ch: make(chan *Event, bufferSize)}
}

// Publish buffers the event. When the buffer is full the oldest event is
// dropped; lifecycle events are advisory and must never block a booking
// mutation.
func (p *InMemoryPublisher) Publish(_ context.Context, event *Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	for {
		select {
		case p.ch <- event:
			return nil
		default:
			select {
			case <-p.ch:
			default:
			}
		}
	}
}

// Events exposes the buffered channel for consumers.
func (p *InMemoryPublisher) Events() <-chan *Event {
	return p.ch
}

// Drain returns every currently buffered event. Useful for testing.
func (p *InMemoryPublisher) Drain() []*Event {
	var out []*Event
	for {
		select {
		case e := <-p.ch:
			if e == nil {
				return out
			}
			out = append(out, e)
		default:
			return out
		}
	}
}

// Close marks the publisher closed and releases the buffer.
func (p *InMemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}
