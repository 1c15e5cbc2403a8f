package graph

import "slices"

// AddGroup adds a named group of nodes. Members are kept in order with
// duplicates dropped. Ids that do not name a node are skipped, so a
// group only ever references nodes of this graph.
//
//	g.AddGroup("Input", []string{"Read", "Parse"}, graph.Metadata{"description": "reading"})
func (g *Graph) AddGroup(name string, nodes []string, metadata Metadata) *Graph {
	g.begin()
	defer g.commit()

	members := make([]string, 0, len(nodes))
	for _, id := range nodes {
		if g.HasNode(id) && !slices.Contains(members, id) {
			members = append(members, id)
		}
	}

	gr := &groupRecord{
		seq:   g.nextSeq(),
		Group: Group{Name: name, Nodes: members, Metadata: orEmpty(metadata)},
	}
	g.groups = append(g.groups, gr)
	g.adj.addGroup(gr)

	g.emit(EventAddGroup, gr.Group.clone())
	return g
}

// RenameGroup renames every group called oldName
func (g *Graph) RenameGroup(oldName, newName string) *Graph {
	matches := g.groupsNamed(oldName)
	if len(matches) == 0 || oldName == newName {
		return g
	}

	g.begin()
	defer g.commit()

	for _, gr := range matches {
		gr.Name = newName
		g.emit(EventRenameGroup, Rename{Old: oldName, New: newName})
	}
	return g
}

// RemoveGroup removes every group called name
func (g *Graph) RemoveGroup(name string) *Graph {
	matches := g.groupsNamed(name)
	if len(matches) == 0 {
		return g
	}

	g.begin()
	defer g.commit()

	for _, gr := range matches {
		g.dropGroup(gr)
	}
	return g
}

// SetGroupMetadata merges patch into the metadata of every group called name
func (g *Graph) SetGroupMetadata(name string, patch Metadata) *Graph {
	matches := g.groupsNamed(name)
	if len(matches) == 0 {
		return g
	}

	g.begin()
	defer g.commit()

	for _, gr := range matches {
		g.changeGroupMetadata(gr, patch)
	}
	return g
}

func (g *Graph) groupsNamed(name string) []*groupRecord {
	var out []*groupRecord
	for _, gr := range g.groups {
		if gr.Name == name {
			out = append(out, gr)
		}
	}
	return out
}

func (g *Graph) changeGroupMetadata(gr *groupRecord, patch Metadata) {
	before := gr.Metadata.Clone()
	gr.Metadata.Apply(patch)
	g.emit(EventChangeGroup, GroupChange{Group: gr.Group.clone(), Before: before, Patch: patch.Clone()})
}

func (g *Graph) dropGroup(gr *groupRecord) {
	if !slices.Contains(g.groups, gr) {
		return
	}
	g.changeGroupMetadata(gr, clearPatch(gr.Metadata))

	g.groups = slices.DeleteFunc(g.groups, func(other *groupRecord) bool { return other == gr })
	g.adj.removeGroup(gr)

	g.emit(EventRemoveGroup, gr.Group.clone())
}
