package graph

// Metadata is an open key-value map attached to graphs and their entities.
type Metadata map[string]any

// Clone returns a deep copy of m. Nested maps and slices are copied as well,
// other values are shared.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Apply merges patch into m: a nil value deletes the key, any other value
// upserts it. Keys not mentioned in patch are left untouched.
func (m Metadata) Apply(patch Metadata) {
	for k, v := range patch {
		if v == nil {
			delete(m, k)
			continue
		}
		m[k] = cloneValue(v)
	}
}

// clearPatch builds the patch that removes every key currently in m.
func clearPatch(m Metadata) Metadata {
	patch := make(Metadata, len(m))
	for k := range m {
		patch[k] = nil
	}
	return patch
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Metadata:
		return t.Clone()
	case map[string]any:
		return map[string]any(Metadata(t).Clone())
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Node is a process instance in the graph.
type Node struct {
	// ID is chosen by the caller and unique within the graph.
	ID string
	// UID is generated on creation and survives renames.
	UID string
	// Component names the process type this node instantiates.
	Component string
	Metadata  Metadata
}

func (n Node) clone() Node {
	n.Metadata = n.Metadata.Clone()
	return n
}

// Leaf addresses a port on a node. Index selects a slot on an addressable
// port; nil means no index.
type Leaf struct {
	NodeID string
	Port   string
	Index  *int
}

// Equal reports whether both leaves address the same node, port and index.
func (l Leaf) Equal(o Leaf) bool {
	return l.NodeID == o.NodeID && l.Port == o.Port && sameIndex(l.Index, o.Index)
}

func (l Leaf) clone() Leaf {
	if l.Index != nil {
		idx := *l.Index
		l.Index = &idx
	}
	return l
}

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Index is a convenience for building optional port indices.
func Index(i int) *int {
	return &i
}

// Edge connects an outport of one node to an inport of another.
type Edge struct {
	From     Leaf
	To       Leaf
	Metadata Metadata
}

func (e Edge) clone() Edge {
	e.From = e.From.clone()
	e.To = e.To.clone()
	e.Metadata = e.Metadata.Clone()
	return e
}

// Initial is an initial information packet: literal data delivered to a
// node inport without a source node.
type Initial struct {
	Data     any
	To       Leaf
	Metadata Metadata
}

func (i Initial) clone() Initial {
	i.Data = cloneValue(i.Data)
	i.To = i.To.clone()
	i.Metadata = i.Metadata.Clone()
	return i
}

// Group is a named, visually related set of nodes. Membership is not
// exclusive.
type Group struct {
	Name     string
	Nodes    []string
	Metadata Metadata
}

func (g Group) clone() Group {
	g.Nodes = append([]string(nil), g.Nodes...)
	g.Metadata = g.Metadata.Clone()
	return g
}

// ExportedPort maps a public graph port onto a port of an internal node.
type ExportedPort struct {
	Process  string
	Port     string
	Metadata Metadata
}

func (p ExportedPort) clone() ExportedPort {
	p.Metadata = p.Metadata.Clone()
	return p
}

// Transaction describes the currently open transaction. An empty ID means
// no transaction is open.
type Transaction struct {
	ID    string
	Depth int
}

// Active reports whether a transaction is open.
func (t Transaction) Active() bool {
	return t.ID != ""
}

func orEmpty(m Metadata) Metadata {
	if m == nil {
		return Metadata{}
	}
	return m.Clone()
}
