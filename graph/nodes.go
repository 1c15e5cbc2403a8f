package graph

import "slices"

// AddNode adds a node instantiating component. Node ids are unique; adding
// an id that already exists leaves the graph unchanged.
//
//	g.AddNode("Read", "ReadFile", graph.Metadata{"x": 91, "y": 154})
func (g *Graph) AddNode(id, component string, metadata Metadata) *Graph {
	if g.HasNode(id) {
		g.logger.Debug("graph %q: node %q already exists", g.Name, id)
		return g
	}

	g.begin()
	defer g.commit()

	n := &Node{
		ID:        id,
		UID:       newUID(),
		Component: component,
		Metadata:  orEmpty(metadata),
	}
	g.nodes = append(g.nodes, n)
	g.nodeIndex[id] = n

	g.emit(EventAddNode, n.clone())
	return g
}

// RemoveNode removes a node together with everything that depends on it,
// all inside one transaction: connected edges, initial packets targeting
// it, exported ports it backs, and its group memberships. Groups left empty
// by the removal are removed as well.
func (g *Graph) RemoveNode(id string) *Graph {
	n, ok := g.nodeIndex[id]
	if !ok {
		return g
	}

	g.begin()
	defer g.commit()

	for _, e := range g.adj.edgesOf(id) {
		g.dropEdge(e)
	}

	for _, iip := range g.adj.initialsOf(id) {
		g.dropInitial(iip)
	}

	g.dropPortsOf(id, g.inportKind())
	g.dropPortsOf(id, g.outportKind())

	for _, gr := range g.adj.groupsOf(id) {
		g.adj.removeGroup(gr)
		gr.Nodes = slices.DeleteFunc(gr.Nodes, func(member string) bool { return member == id })
		g.adj.addGroup(gr)
		if len(gr.Nodes) == 0 {
			g.dropGroup(gr)
		}
	}

	g.changeNodeMetadata(n, clearPatch(n.Metadata))

	g.nodes = slices.DeleteFunc(g.nodes, func(other *Node) bool { return other == n })
	delete(g.nodeIndex, id)

	g.emit(EventRemoveNode, n.clone())
	return g
}

// RenameNode changes a node id and rewrites every edge endpoint, initial
// packet target, exported port and group membership that referenced it.
// Only rename_node is emitted; the reference fix-ups are not separate
// edits. Renaming onto an existing id is ignored.
func (g *Graph) RenameNode(oldID, newID string) *Graph {
	n, ok := g.nodeIndex[oldID]
	if !ok || oldID == newID || g.HasNode(newID) {
		return g
	}

	g.begin()
	defer g.commit()

	n.ID = newID
	delete(g.nodeIndex, oldID)
	g.nodeIndex[newID] = n

	for _, e := range g.adj.edgesOf(oldID) {
		if e.From.NodeID == oldID {
			e.From.NodeID = newID
		}
		if e.To.NodeID == oldID {
			e.To.NodeID = newID
		}
	}
	for _, iip := range g.adj.initialsOf(oldID) {
		iip.To.NodeID = newID
	}
	for _, gr := range g.adj.groupsOf(oldID) {
		for i, member := range gr.Nodes {
			if member == oldID {
				gr.Nodes[i] = newID
			}
		}
	}
	for _, ports := range []map[string]*ExportedPort{g.inports, g.outports} {
		for _, p := range ports {
			if p.Process == oldID {
				p.Process = newID
			}
		}
	}
	g.adj.rename(oldID, newID)

	g.emit(EventRenameNode, Rename{Old: oldID, New: newID})
	return g
}

// SetNodeMetadata merges patch into the node metadata. A nil value deletes
// the key.
func (g *Graph) SetNodeMetadata(id string, patch Metadata) *Graph {
	n, ok := g.nodeIndex[id]
	if !ok {
		return g
	}

	g.begin()
	defer g.commit()

	g.changeNodeMetadata(n, patch)
	return g
}

func (g *Graph) changeNodeMetadata(n *Node, patch Metadata) {
	before := n.Metadata.Clone()
	n.Metadata.Apply(patch)
	g.emit(EventChangeNode, NodeChange{Node: n.clone(), Before: before, Patch: patch.Clone()})
}
