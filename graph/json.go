package graph

import (
	"encoding/json"
	"fmt"
)

// Document is the canonical persisted form of a graph.
type Document struct {
	CaseSensitive bool                       `json:"caseSensitive" yaml:"caseSensitive" msgpack:"caseSensitive"`
	Properties    Metadata                   `json:"properties" yaml:"properties" msgpack:"properties"`
	Inports       map[string]PortDocument    `json:"inports" yaml:"inports" msgpack:"inports"`
	Outports      map[string]PortDocument    `json:"outports" yaml:"outports" msgpack:"outports"`
	Groups        []GroupDocument            `json:"groups" yaml:"groups" msgpack:"groups"`
	Processes     map[string]ProcessDocument `json:"processes" yaml:"processes" msgpack:"processes"`
	Connections   []ConnectionDocument       `json:"connections" yaml:"connections" msgpack:"connections"`
}

// LeafDocument is a connection endpoint
type LeafDocument struct {
	Process string `json:"process" yaml:"process" msgpack:"process"`
	Port    string `json:"port" yaml:"port" msgpack:"port"`
	Index   *int   `json:"index,omitempty" yaml:"index,omitempty" msgpack:"index,omitempty"`
}

// PortDocument is an exported port definition
type PortDocument struct {
	Process  string   `json:"process" yaml:"process" msgpack:"process"`
	Port     string   `json:"port" yaml:"port" msgpack:"port"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// GroupDocument is a group definition
type GroupDocument struct {
	Name     string   `json:"name" yaml:"name" msgpack:"name"`
	Nodes    []string `json:"nodes" yaml:"nodes" msgpack:"nodes"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// ProcessDocument is a node definition, keyed by node id in Document
type ProcessDocument struct {
	Component string   `json:"component" yaml:"component" msgpack:"component"`
	Metadata  Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// ConnectionDocument is either an edge (Src and Tgt) or an initial
// information packet (Tgt and Data).
type ConnectionDocument struct {
	Src      *LeafDocument `json:"src,omitempty" yaml:"src,omitempty" msgpack:"src,omitempty"`
	Tgt      *LeafDocument `json:"tgt,omitempty" yaml:"tgt,omitempty" msgpack:"tgt,omitempty"`
	Data     any           `json:"data,omitempty" yaml:"data,omitempty" msgpack:"data"`
	Metadata Metadata      `json:"metadata,omitempty" yaml:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// IsInitial reports whether the connection describes an initial packet
func (c ConnectionDocument) IsInitial() bool {
	return c.Data != nil || c.Src == nil
}

func leafDocument(l Leaf) *LeafDocument {
	l = l.clone()
	return &LeafDocument{Process: l.NodeID, Port: l.Port, Index: l.Index}
}

func nonEmpty(m Metadata) Metadata {
	if len(m) == 0 {
		return nil
	}
	return m.Clone()
}

// ToJSON exports the current state. Empty metadata is omitted, the graph
// name is injected into the properties, and host-specific properties are
// stripped.
func (g *Graph) ToJSON() *Document {
	doc := &Document{
		CaseSensitive: g.caseSensitive,
		Properties:    g.properties.Clone(),
		Inports:       exportPorts(g.inports),
		Outports:      exportPorts(g.outports),
		Groups:        make([]GroupDocument, 0, len(g.groups)),
		Processes:     make(map[string]ProcessDocument, len(g.nodes)),
		Connections:   make([]ConnectionDocument, 0, len(g.edges)+len(g.initials)),
	}
	doc.Properties[PropertyName] = g.Name
	delete(doc.Properties, PropertyBaseDir)
	delete(doc.Properties, PropertyComponentLoader)

	for _, gr := range g.groups {
		doc.Groups = append(doc.Groups, GroupDocument{
			Name:     gr.Name,
			Nodes:    append([]string{}, gr.Nodes...),
			Metadata: nonEmpty(gr.Metadata),
		})
	}

	for _, n := range g.nodes {
		doc.Processes[n.ID] = ProcessDocument{
			Component: n.Component,
			Metadata:  nonEmpty(n.Metadata),
		}
	}

	for _, e := range g.edges {
		doc.Connections = append(doc.Connections, ConnectionDocument{
			Src:      leafDocument(e.From),
			Tgt:      leafDocument(e.To),
			Metadata: nonEmpty(e.Metadata),
		})
	}
	for _, iip := range g.initials {
		doc.Connections = append(doc.Connections, ConnectionDocument{
			Tgt:      leafDocument(iip.To),
			Data:     cloneValue(iip.Data),
			Metadata: nonEmpty(iip.Metadata),
		})
	}

	return doc
}

func exportPorts(ports map[string]*ExportedPort) map[string]PortDocument {
	out := make(map[string]PortDocument, len(ports))
	for name, p := range ports {
		out[name] = PortDocument{
			Process:  p.Process,
			Port:     p.Port,
			Metadata: nonEmpty(p.Metadata),
		}
	}
	return out
}

// ToJSONString exports the graph as a JSON string
func (g *Graph) ToJSONString() (string, error) {
	data, err := MarshalDocument(g.ToJSON(), FormatJSON)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Validate checks the structure of a document before it is imported
func (doc *Document) Validate() error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidDocument)
	}
	if name, ok := doc.Properties[PropertyName]; ok {
		if _, isString := name.(string); !isString {
			return fmt.Errorf("%w: property %q must be a string", ErrInvalidDocument, PropertyName)
		}
	}
	for i, conn := range doc.Connections {
		if conn.Tgt == nil {
			return fmt.Errorf("%w: connection %d has no target", ErrInvalidDocument, i)
		}
		if conn.Tgt.Process == "" {
			return fmt.Errorf("%w: connection %d target has no process", ErrInvalidDocument, i)
		}
		if !conn.IsInitial() && conn.Src.Process == "" {
			return fmt.Errorf("%w: connection %d source has no process", ErrInvalidDocument, i)
		}
	}
	for name, p := range doc.Inports {
		if p.Process == "" {
			return fmt.Errorf("%w: inport %q has no process", ErrInvalidDocument, name)
		}
	}
	for name, p := range doc.Outports {
		if p.Process == "" {
			return fmt.Errorf("%w: outport %q has no process", ErrInvalidDocument, name)
		}
	}
	return nil
}

// FromJSON builds a graph from a document inside a single explicit
// load_json transaction. Properties are applied first, then nodes, then
// connections, exported ports and groups, so no connection refers to a
// node that does not exist yet. Use WithListener to observe the load.
func FromJSON(doc *Document, metadata Metadata, opts ...Option) (*Graph, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	name, _ := doc.Properties[PropertyName].(string)
	opts = append(opts, WithCaseSensitive(doc.CaseSensitive))
	g := New(name, opts...)

	g.StartTransaction(LoadTransaction, metadata)

	props := doc.Properties.Clone()
	delete(props, PropertyName)
	g.SetProperties(props)

	for _, id := range sortedKeys(doc.Processes) {
		def := doc.Processes[id]
		g.AddNode(id, def.Component, def.Metadata)
	}

	for _, conn := range doc.Connections {
		tgt := conn.Tgt
		if conn.IsInitial() {
			g.AddInitialIndex(conn.Data, tgt.Process, tgt.Port, tgt.Index, conn.Metadata)
			continue
		}
		src := conn.Src
		g.AddEdgeIndex(src.Process, src.Port, src.Index, tgt.Process, tgt.Port, tgt.Index, conn.Metadata)
	}

	for _, public := range sortedKeys(doc.Inports) {
		p := doc.Inports[public]
		g.AddInport(public, p.Process, p.Port, p.Metadata)
	}
	for _, public := range sortedKeys(doc.Outports) {
		p := doc.Outports[public]
		g.AddOutport(public, p.Process, p.Port, p.Metadata)
	}

	for _, gr := range doc.Groups {
		g.AddGroup(gr.Name, gr.Nodes, gr.Metadata)
	}

	g.EndTransaction(LoadTransaction, metadata)
	return g, nil
}

// FromJSONString parses a JSON document and builds a graph from it
func FromJSONString(source string, metadata Metadata, opts ...Option) (*Graph, error) {
	doc, err := UnmarshalDocument([]byte(source), FormatJSON)
	if err != nil {
		return nil, err
	}
	return FromJSON(doc, metadata, opts...)
}

// MarshalJSON implements json.Marshaler using the canonical document
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.ToJSON())
}
