package graph

import "slices"

// AddEdge connects outNode's outPort to inNode's inPort. Both nodes must
// exist; an identical edge is not added twice.
//
//	g.AddEdge("Read", "out", "Display", "in", nil)
func (g *Graph) AddEdge(outNode, outPort, inNode, inPort string, metadata Metadata) *Graph {
	return g.AddEdgeIndex(outNode, outPort, nil, inNode, inPort, nil, metadata)
}

// AddEdgeIndex is AddEdge with explicit slot indices for addressable
// ports. Edges that differ only in an index are distinct.
//
//	g.AddEdgeIndex("Read", "out", nil, "Display", "in", graph.Index(2), nil)
func (g *Graph) AddEdgeIndex(outNode, outPort string, outIndex *int, inNode, inPort string, inIndex *int, metadata Metadata) *Graph {
	from := Leaf{NodeID: outNode, Port: g.PortName(outPort), Index: outIndex}.clone()
	to := Leaf{NodeID: inNode, Port: g.PortName(inPort), Index: inIndex}.clone()

	if g.findEdge(func(e *edgeRecord) bool { return e.From.Equal(from) && e.To.Equal(to) }) != nil {
		return g
	}
	if !g.HasNode(outNode) || !g.HasNode(inNode) {
		return g
	}

	g.begin()
	defer g.commit()

	e := &edgeRecord{
		seq:  g.nextSeq(),
		Edge: Edge{From: from, To: to, Metadata: orEmpty(metadata)},
	}
	g.edges = append(g.edges, e)
	g.adj.addEdge(e)

	g.emit(EventAddEdge, e.Edge.clone())
	return g
}

// RemoveEdge disconnects edges. With both endpoints given it removes the
// edges between node:port and node2:port2 whatever their indices. When
// node2 or port2 is empty it removes every edge touching node:port on
// either side, which disconnects the port in one call.
//
//	g.RemoveEdge("Display", "out", "Foo", "in")
//	g.RemoveEdge("Display", "out", "", "")
func (g *Graph) RemoveEdge(node, port, node2, port2 string) *Graph {
	port = g.PortName(port)
	var match func(e *edgeRecord) bool
	if node2 != "" && port2 != "" {
		port2 = g.PortName(port2)
		match = func(e *edgeRecord) bool {
			return e.From.NodeID == node && e.From.Port == port &&
				e.To.NodeID == node2 && e.To.Port == port2
		}
	} else {
		match = func(e *edgeRecord) bool {
			return (e.From.NodeID == node && e.From.Port == port) ||
				(e.To.NodeID == node && e.To.Port == port)
		}
	}

	var doomed []*edgeRecord
	for _, e := range g.adj.edgesOf(node) {
		if match(e) {
			doomed = append(doomed, e)
		}
	}
	if len(doomed) == 0 {
		return g
	}

	g.begin()
	defer g.commit()

	for _, e := range doomed {
		g.dropEdge(e)
	}
	return g
}

// GetEdge returns the first edge between node:port and node2:port2,
// ignoring port indices.
func (g *Graph) GetEdge(node, port, node2, port2 string) (Edge, bool) {
	e := g.lookupEdge(node, port, node2, port2)
	if e == nil {
		return Edge{}, false
	}
	return e.Edge.clone(), true
}

// GetEdgeIndex returns the edge with exactly the given endpoints and
// indices.
func (g *Graph) GetEdgeIndex(node, port string, index *int, node2, port2 string, index2 *int) (Edge, bool) {
	from := Leaf{NodeID: node, Port: g.PortName(port), Index: index}
	to := Leaf{NodeID: node2, Port: g.PortName(port2), Index: index2}
	e := g.findEdge(func(e *edgeRecord) bool { return e.From.Equal(from) && e.To.Equal(to) })
	if e == nil {
		return Edge{}, false
	}
	return e.Edge.clone(), true
}

// SetEdgeMetadata merges patch into the metadata of the first edge between
// node:port and node2:port2.
func (g *Graph) SetEdgeMetadata(node, port, node2, port2 string, patch Metadata) *Graph {
	e := g.lookupEdge(node, port, node2, port2)
	if e == nil {
		return g
	}

	g.begin()
	defer g.commit()

	g.changeEdgeMetadata(e, patch)
	return g
}

func (g *Graph) lookupEdge(node, port, node2, port2 string) *edgeRecord {
	port, port2 = g.PortName(port), g.PortName(port2)
	return g.findEdge(func(e *edgeRecord) bool {
		return e.From.NodeID == node && e.From.Port == port &&
			e.To.NodeID == node2 && e.To.Port == port2
	})
}

func (g *Graph) findEdge(match func(*edgeRecord) bool) *edgeRecord {
	for _, e := range g.edges {
		if match(e) {
			return e
		}
	}
	return nil
}

func (g *Graph) changeEdgeMetadata(e *edgeRecord, patch Metadata) {
	before := e.Metadata.Clone()
	e.Metadata.Apply(patch)
	g.emit(EventChangeEdge, EdgeChange{Edge: e.Edge.clone(), Before: before, Patch: patch.Clone()})
}

// dropEdge clears the edge metadata, then removes it. Must run inside a
// transaction.
func (g *Graph) dropEdge(e *edgeRecord) {
	if !slices.Contains(g.edges, e) {
		return
	}
	g.changeEdgeMetadata(e, clearPatch(e.Metadata))

	g.edges = slices.DeleteFunc(g.edges, func(other *edgeRecord) bool { return other == e })
	g.adj.removeEdge(e)

	g.emit(EventRemoveEdge, e.Edge.clone())
}
