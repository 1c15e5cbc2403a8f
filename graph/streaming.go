package graph

import (
	"sync"
	"time"
)

// StreamMode selects which graph events a stream forwards
type StreamMode string

const (
	// StreamModeAll forwards every event (default)
	StreamModeAll StreamMode = "all"
	// StreamModeTransactions forwards only start_transaction and end_transaction
	StreamModeTransactions StreamMode = "transactions"
	// StreamModeChanges forwards everything except transaction boundaries
	StreamModeChanges StreamMode = "changes"
)

// StreamConfig configures streaming behavior
type StreamConfig struct {
	// BufferSize is the size of the event channel buffer
	BufferSize int

	// MaxDroppedEvents is the number of dropped events after which a
	// warning is logged, and again at every multiple
	MaxDroppedEvents int

	// Mode specifies what kind of events to stream
	Mode StreamMode
}

// DefaultStreamConfig returns the default streaming configuration
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		BufferSize:       1000,
		MaxDroppedEvents: 100,
		Mode:             StreamModeAll,
	}
}

// StreamEvent is a graph event stamped for delivery over a channel
type StreamEvent struct {
	// Sequence numbers forwarded events from 1, without gaps for dropped ones
	Sequence  uint64
	Timestamp time.Time
	Name      EventName
	// Transaction is the id of the transaction the event belongs to
	Transaction string
	Data        any
}

// StreamingListener forwards graph events to a buffered channel so they
// can be consumed from another goroutine. Emission never blocks: when the
// buffer is full the event is dropped and counted.
type StreamingListener struct {
	events chan StreamEvent
	config StreamConfig

	mu      sync.Mutex
	seq     uint64
	dropped int
	closed  bool
}

// NewStreamingListener creates a new streaming listener
func NewStreamingListener(config StreamConfig) *StreamingListener {
	if config.BufferSize <= 0 {
		config.BufferSize = DefaultStreamConfig().BufferSize
	}
	if config.Mode == "" {
		config.Mode = StreamModeAll
	}
	return &StreamingListener{
		events: make(chan StreamEvent, config.BufferSize),
		config: config,
	}
}

// Stream connects a new streaming listener to every event of g
//
//	sl := g.Stream(graph.DefaultStreamConfig())
//	defer sl.Close()
//	go func() {
//		for e := range sl.Events() {
//			fmt.Println(e.Sequence, e.Name)
//		}
//	}()
func (g *Graph) Stream(config StreamConfig) *StreamingListener {
	sl := NewStreamingListener(config)
	for _, name := range AllEvents {
		if sl.shouldEmit(name) {
			g.Connect(name, sl, false)
		}
	}
	return sl
}

// Events returns the channel events are delivered on. It is closed by Close.
func (sl *StreamingListener) Events() <-chan StreamEvent {
	return sl.events
}

// Dropped returns how many events were discarded because the buffer was full
func (sl *StreamingListener) Dropped() int {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.dropped
}

// Close stops forwarding and closes the event channel. The listener stays
// registered on the graph but ignores further events.
func (sl *StreamingListener) Close() {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.closed {
		return
	}
	sl.closed = true
	close(sl.events)
}

func (sl *StreamingListener) shouldEmit(name EventName) bool {
	boundary := name == EventStartTransaction || name == EventEndTransaction
	switch sl.config.Mode {
	case StreamModeTransactions:
		return boundary
	case StreamModeChanges:
		return !boundary
	default:
		return true
	}
}

// OnGraphEvent implements the Listener interface
func (sl *StreamingListener) OnGraphEvent(event Event) {
	if !sl.shouldEmit(event.Name) {
		return
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.closed {
		return
	}

	se := StreamEvent{
		Sequence:  sl.seq + 1,
		Timestamp: time.Now(),
		Name:      event.Name,
		Data:      event.Data,
	}
	if event.Graph != nil {
		se.Transaction = event.Graph.Transaction().ID
	}
	if tx, ok := event.Data.(TransactionEvent); ok {
		se.Transaction = tx.ID
	}

	select {
	case sl.events <- se:
		sl.seq++
	default:
		sl.handleBackpressure(event)
	}
}

func (sl *StreamingListener) handleBackpressure(event Event) {
	sl.dropped++
	if sl.config.MaxDroppedEvents > 0 && sl.dropped%sl.config.MaxDroppedEvents == 0 && event.Graph != nil {
		event.Graph.logger.Warn("event stream of graph %q dropped %d events", event.Graph.Name, sl.dropped)
	}
}
