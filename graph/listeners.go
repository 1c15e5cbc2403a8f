package graph

import "slices"

// EventName identifies a graph event
type EventName string

const (
	// EventStartTransaction is emitted when a transaction opens
	EventStartTransaction EventName = "start_transaction"
	// EventEndTransaction is emitted when a transaction closes
	EventEndTransaction EventName = "end_transaction"

	EventChangeProperties EventName = "change_properties"

	EventAddNode    EventName = "add_node"
	EventRemoveNode EventName = "remove_node"
	EventRenameNode EventName = "rename_node"
	EventChangeNode EventName = "change_node"

	EventAddEdge    EventName = "add_edge"
	EventRemoveEdge EventName = "remove_edge"
	EventChangeEdge EventName = "change_edge"

	EventAddInitial    EventName = "add_initial"
	EventRemoveInitial EventName = "remove_initial"

	EventAddInport    EventName = "add_inport"
	EventRemoveInport EventName = "remove_inport"
	EventRenameInport EventName = "rename_inport"
	EventChangeInport EventName = "change_inport"

	EventAddOutport    EventName = "add_outport"
	EventRemoveOutport EventName = "remove_outport"
	EventRenameOutport EventName = "rename_outport"
	EventChangeOutport EventName = "change_outport"

	EventAddGroup    EventName = "add_group"
	EventRemoveGroup EventName = "remove_group"
	EventRenameGroup EventName = "rename_group"
	EventChangeGroup EventName = "change_group"
)

// AllEvents lists every event a graph emits, in declaration order.
var AllEvents = []EventName{
	EventStartTransaction, EventEndTransaction, EventChangeProperties,
	EventAddNode, EventRemoveNode, EventRenameNode, EventChangeNode,
	EventAddEdge, EventRemoveEdge, EventChangeEdge,
	EventAddInitial, EventRemoveInitial,
	EventAddInport, EventRemoveInport, EventRenameInport, EventChangeInport,
	EventAddOutport, EventRemoveOutport, EventRenameOutport, EventChangeOutport,
	EventAddGroup, EventRemoveGroup, EventRenameGroup, EventChangeGroup,
}

// Event is delivered to listeners. Data holds one of the payload types
// below, always a private copy.
type Event struct {
	Name  EventName
	Graph *Graph
	Data  any
}

// TransactionEvent is the payload of start_transaction and end_transaction
type TransactionEvent struct {
	ID       string
	Metadata Metadata
}

// Rename is the payload of every rename_* event
type Rename struct {
	Old string
	New string
}

// PropertiesChange is the payload of change_properties
type PropertiesChange struct {
	Properties Metadata
	Before     Metadata
	Patch      Metadata
}

// NodeChange is the payload of change_node
type NodeChange struct {
	Node   Node
	Before Metadata
	Patch  Metadata
}

// EdgeChange is the payload of change_edge
type EdgeChange struct {
	Edge   Edge
	Before Metadata
	Patch  Metadata
}

// PortEvent is the payload of add/remove events for exported ports
type PortEvent struct {
	Name string
	Port ExportedPort
}

// PortChange is the payload of change_inport and change_outport
type PortChange struct {
	Name   string
	Port   ExportedPort
	Before Metadata
	Patch  Metadata
}

// GroupChange is the payload of change_group
type GroupChange struct {
	Group  Group
	Before Metadata
	Patch  Metadata
}

// Listener receives graph events
type Listener interface {
	// OnGraphEvent is called synchronously from the mutating call
	OnGraphEvent(event Event)
}

// ListenerFunc is a function adapter for Listener
type ListenerFunc func(event Event)

// OnGraphEvent implements the Listener interface
func (f ListenerFunc) OnGraphEvent(event Event) {
	f(event)
}

type subscription struct {
	listener Listener
	once     bool
	fired    bool
}

// EventBus is a registry of named-event listeners. Emission is synchronous
// and reentrant, but the bus is not safe for concurrent use.
type EventBus struct {
	listeners map[EventName][]*subscription
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{listeners: make(map[EventName][]*subscription)}
}

// Connect registers l for name. A once listener is dropped after its first
// invocation.
func (b *EventBus) Connect(name EventName, l Listener, once bool) {
	b.listeners[name] = append(b.listeners[name], &subscription{listener: l, once: once})
}

// Disconnect removes every listener registered for name
func (b *EventBus) Disconnect(name EventName) {
	delete(b.listeners, name)
}

// HasEvent reports whether any listener is registered for name
func (b *EventBus) HasEvent(name EventName) bool {
	return len(b.listeners[name]) > 0
}

// ListenerCount returns the number of listeners registered for name
func (b *EventBus) ListenerCount(name EventName) int {
	return len(b.listeners[name])
}

// Emit invokes, in registration order, the listeners registered for
// event.Name when Emit is called. Listeners added or removed by a callback
// take effect from the next emission. Spent once listeners are compacted
// out after the loop.
func (b *EventBus) Emit(event Event) {
	subs := b.listeners[event.Name]
	if len(subs) == 0 {
		return
	}
	snapshot := slices.Clone(subs)

	spent := false
	for _, s := range snapshot {
		if s.once {
			// a nested emission may already have consumed it
			if s.fired {
				continue
			}
			s.fired = true
			spent = true
		}
		s.listener.OnGraphEvent(event)
	}

	if spent {
		b.compact(event.Name)
	}
}

func (b *EventBus) compact(name EventName) {
	subs, ok := b.listeners[name]
	if !ok {
		return
	}
	subs = slices.DeleteFunc(subs, func(s *subscription) bool { return s.fired })
	if len(subs) == 0 {
		delete(b.listeners, name)
		return
	}
	b.listeners[name] = subs
}
