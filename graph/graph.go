package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/google/uuid"
	"github.com/smallnest/fbpgraph/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type edgeRecord struct {
	seq uint64
	Edge
}

type initialRecord struct {
	seq uint64
	Initial
}

type groupRecord struct {
	seq uint64
	Group
}

// Graph is an editable flow-based-programming graph: nodes, the edges
// between their ports, initial information packets, groups and exported
// ports. Every mutation runs inside a transaction and is announced on the
// graph's event bus.
//
// A Graph assumes a single writer. It does no internal locking.
type Graph struct {
	// Name is injected into the exported properties.
	Name string

	caseSensitive bool
	folder        cases.Caser
	logger        log.Logger

	nodes     []*Node
	nodeIndex map[string]*Node
	edges     []*edgeRecord
	initials  []*initialRecord
	groups    []*groupRecord
	inports   map[string]*ExportedPort
	outports  map[string]*ExportedPort

	properties Metadata

	transaction Transaction
	implicit    bool

	bus *EventBus
	seq uint64
	adj *incidence
}

// Option configures a Graph at construction time
type Option func(*Graph)

// WithCaseSensitive disables lower-case folding of port names
func WithCaseSensitive(sensitive bool) Option {
	return func(g *Graph) {
		g.caseSensitive = sensitive
	}
}

// WithLogger sets the logger used by the graph
func WithLogger(logger log.Logger) Option {
	return func(g *Graph) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithListener connects a persistent listener before anything else
// happens, so it also observes the events of FromJSON.
func WithListener(name EventName, l Listener) Option {
	return func(g *Graph) {
		g.bus.Connect(name, l, false)
	}
}

// New creates an empty graph
func New(name string, opts ...Option) *Graph {
	g := &Graph{
		Name:       name,
		logger:     log.GetDefaultLogger(),
		nodeIndex:  make(map[string]*Node),
		inports:    make(map[string]*ExportedPort),
		outports:   make(map[string]*ExportedPort),
		properties: Metadata{},
		bus:        NewEventBus(),
		adj:        newIncidence(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.folder = cases.Lower(language.Und)
	return g
}

// CaseSensitive reports whether port names keep their case
func (g *Graph) CaseSensitive() bool {
	return g.caseSensitive
}

// PortName normalizes a port name according to the graph's case mode
func (g *Graph) PortName(port string) string {
	if g.caseSensitive {
		return port
	}
	return g.folder.String(port)
}

// Connect registers a listener for an event
func (g *Graph) Connect(name EventName, l Listener, once bool) *Graph {
	g.bus.Connect(name, l, once)
	return g
}

// On registers fn as a persistent listener for name
func (g *Graph) On(name EventName, fn func(Event)) *Graph {
	return g.Connect(name, ListenerFunc(fn), false)
}

// Disconnect removes every listener registered for name
func (g *Graph) Disconnect(name EventName) *Graph {
	g.bus.Disconnect(name)
	return g
}

// HasEvent reports whether any listener is registered for name
func (g *Graph) HasEvent(name EventName) bool {
	return g.bus.HasEvent(name)
}

// Bus exposes the graph's event bus
func (g *Graph) Bus() *EventBus {
	return g.bus
}

func (g *Graph) emit(name EventName, data any) {
	g.bus.Emit(Event{Name: name, Graph: g, Data: data})
}

func (g *Graph) nextSeq() uint64 {
	g.seq++
	return g.seq
}

func newUID() string {
	return uuid.NewString()
}

// GetNode returns a copy of the node with the given id
func (g *Graph) GetNode(id string) (Node, bool) {
	n, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// HasNode reports whether a node with the given id exists
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.clone())
	}
	return out
}

// Edges returns copies of all edges in insertion order
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e.Edge.clone())
	}
	return out
}

// Initials returns copies of all initial information packets
func (g *Graph) Initials() []Initial {
	out := make([]Initial, 0, len(g.initials))
	for _, iip := range g.initials {
		out = append(out, iip.Initial.clone())
	}
	return out
}

// Groups returns copies of all groups
func (g *Graph) Groups() []Group {
	out := make([]Group, 0, len(g.groups))
	for _, gr := range g.groups {
		out = append(out, gr.Group.clone())
	}
	return out
}

// GetGroup returns a copy of the first group with the given name
func (g *Graph) GetGroup(name string) (Group, bool) {
	for _, gr := range g.groups {
		if gr.Name == name {
			return gr.Group.clone(), true
		}
	}
	return Group{}, false
}

// Inports returns a copy of the exported inport map
func (g *Graph) Inports() map[string]ExportedPort {
	return clonePorts(g.inports)
}

// Outports returns a copy of the exported outport map
func (g *Graph) Outports() map[string]ExportedPort {
	return clonePorts(g.outports)
}

// GetInport resolves a public inport name
func (g *Graph) GetInport(name string) (ExportedPort, bool) {
	p, ok := g.inports[g.PortName(name)]
	if !ok {
		return ExportedPort{}, false
	}
	return p.clone(), true
}

// GetOutport resolves a public outport name
func (g *Graph) GetOutport(name string) (ExportedPort, bool) {
	p, ok := g.outports[g.PortName(name)]
	if !ok {
		return ExportedPort{}, false
	}
	return p.clone(), true
}

// Properties returns a copy of the graph properties
func (g *Graph) Properties() Metadata {
	return g.properties.Clone()
}

func clonePorts(in map[string]*ExportedPort) map[string]ExportedPort {
	out := make(map[string]ExportedPort, len(in))
	for k, p := range in {
		out[k] = p.clone()
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// incidence maps a node id to the edges, initials and groups that
// reference it, so cascades don't rescan every collection.
type incidence struct {
	edges    map[string]map[*edgeRecord]struct{}
	initials map[string]map[*initialRecord]struct{}
	groups   map[string]map[*groupRecord]struct{}
}

func newIncidence() *incidence {
	return &incidence{
		edges:    make(map[string]map[*edgeRecord]struct{}),
		initials: make(map[string]map[*initialRecord]struct{}),
		groups:   make(map[string]map[*groupRecord]struct{}),
	}
}

func link[T comparable](idx map[string]map[T]struct{}, id string, v T) {
	set, ok := idx[id]
	if !ok {
		set = make(map[T]struct{})
		idx[id] = set
	}
	set[v] = struct{}{}
}

func unlink[T comparable](idx map[string]map[T]struct{}, id string, v T) {
	set, ok := idx[id]
	if !ok {
		return
	}
	delete(set, v)
	if len(set) == 0 {
		delete(idx, id)
	}
}

func relink[T comparable](idx map[string]map[T]struct{}, oldID, newID string) {
	set, ok := idx[oldID]
	if !ok {
		return
	}
	delete(idx, oldID)
	for v := range set {
		link(idx, newID, v)
	}
}

func (ix *incidence) addEdge(e *edgeRecord) {
	link(ix.edges, e.From.NodeID, e)
	link(ix.edges, e.To.NodeID, e)
}

func (ix *incidence) removeEdge(e *edgeRecord) {
	unlink(ix.edges, e.From.NodeID, e)
	unlink(ix.edges, e.To.NodeID, e)
}

func (ix *incidence) addInitial(iip *initialRecord) {
	link(ix.initials, iip.To.NodeID, iip)
}

func (ix *incidence) removeInitial(iip *initialRecord) {
	unlink(ix.initials, iip.To.NodeID, iip)
}

func (ix *incidence) addGroup(gr *groupRecord) {
	for _, id := range gr.Nodes {
		link(ix.groups, id, gr)
	}
}

func (ix *incidence) removeGroup(gr *groupRecord) {
	for _, id := range gr.Nodes {
		unlink(ix.groups, id, gr)
	}
}

func (ix *incidence) rename(oldID, newID string) {
	relink(ix.edges, oldID, newID)
	relink(ix.initials, oldID, newID)
	relink(ix.groups, oldID, newID)
}

func (ix *incidence) edgesOf(id string) []*edgeRecord {
	return bySeq(ix.edges[id], func(e *edgeRecord) uint64 { return e.seq })
}

func (ix *incidence) initialsOf(id string) []*initialRecord {
	return bySeq(ix.initials[id], func(i *initialRecord) uint64 { return i.seq })
}

func (ix *incidence) groupsOf(id string) []*groupRecord {
	return bySeq(ix.groups[id], func(g *groupRecord) uint64 { return g.seq })
}

// bySeq returns the set members in insertion order.
func bySeq[T comparable](set map[T]struct{}, seq func(T) uint64) []T {
	out := make([]T, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(seq(a), seq(b)) })
	return out
}
