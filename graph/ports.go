package graph

// portKind carries what differs between exported inports and outports.
type portKind struct {
	ports                       map[string]*ExportedPort
	add, remove, rename, change EventName
}

func (g *Graph) inportKind() portKind {
	return portKind{
		ports:  g.inports,
		add:    EventAddInport,
		remove: EventRemoveInport,
		rename: EventRenameInport,
		change: EventChangeInport,
	}
}

func (g *Graph) outportKind() portKind {
	return portKind{
		ports:  g.outports,
		add:    EventAddOutport,
		remove: EventRemoveOutport,
		rename: EventRenameOutport,
		change: EventChangeOutport,
	}
}

// AddInport exports port of node under the public name. The node must
// exist and the public name must be free.
//
//	g.AddInport("file", "Read", "source", nil)
func (g *Graph) AddInport(public, node, port string, metadata Metadata) *Graph {
	return g.addPort(g.inportKind(), public, node, port, metadata)
}

// RemoveInport removes an exported inport
func (g *Graph) RemoveInport(public string) *Graph {
	return g.removePort(g.inportKind(), public)
}

// RenameInport renames an exported inport
func (g *Graph) RenameInport(oldName, newName string) *Graph {
	return g.renamePort(g.inportKind(), oldName, newName)
}

// SetInportMetadata merges patch into an exported inport's metadata
func (g *Graph) SetInportMetadata(public string, patch Metadata) *Graph {
	return g.setPortMetadata(g.inportKind(), public, patch)
}

// AddOutport exports port of node under the public name
func (g *Graph) AddOutport(public, node, port string, metadata Metadata) *Graph {
	return g.addPort(g.outportKind(), public, node, port, metadata)
}

// RemoveOutport removes an exported outport
func (g *Graph) RemoveOutport(public string) *Graph {
	return g.removePort(g.outportKind(), public)
}

// RenameOutport renames an exported outport
func (g *Graph) RenameOutport(oldName, newName string) *Graph {
	return g.renamePort(g.outportKind(), oldName, newName)
}

// SetOutportMetadata merges patch into an exported outport's metadata
func (g *Graph) SetOutportMetadata(public string, patch Metadata) *Graph {
	return g.setPortMetadata(g.outportKind(), public, patch)
}

func (g *Graph) addPort(kind portKind, public, node, port string, metadata Metadata) *Graph {
	if !g.HasNode(node) {
		return g
	}
	name := g.PortName(public)
	if _, exists := kind.ports[name]; exists {
		return g
	}

	g.begin()
	defer g.commit()

	p := &ExportedPort{
		Process:  node,
		Port:     g.PortName(port),
		Metadata: orEmpty(metadata),
	}
	kind.ports[name] = p

	g.emit(kind.add, PortEvent{Name: name, Port: p.clone()})
	return g
}

func (g *Graph) removePort(kind portKind, public string) *Graph {
	name := g.PortName(public)
	if _, ok := kind.ports[name]; !ok {
		return g
	}

	g.begin()
	defer g.commit()

	g.dropPort(kind, name)
	return g
}

func (g *Graph) renamePort(kind portKind, oldName, newName string) *Graph {
	oldName, newName = g.PortName(oldName), g.PortName(newName)
	p, ok := kind.ports[oldName]
	if !ok || oldName == newName {
		return g
	}
	if _, taken := kind.ports[newName]; taken {
		return g
	}

	g.begin()
	defer g.commit()

	delete(kind.ports, oldName)
	kind.ports[newName] = p

	g.emit(kind.rename, Rename{Old: oldName, New: newName})
	return g
}

func (g *Graph) setPortMetadata(kind portKind, public string, patch Metadata) *Graph {
	name := g.PortName(public)
	p, ok := kind.ports[name]
	if !ok {
		return g
	}

	g.begin()
	defer g.commit()

	g.changePortMetadata(kind, name, p, patch)
	return g
}

func (g *Graph) changePortMetadata(kind portKind, name string, p *ExportedPort, patch Metadata) {
	before := p.Metadata.Clone()
	p.Metadata.Apply(patch)
	g.emit(kind.change, PortChange{Name: name, Port: p.clone(), Before: before, Patch: patch.Clone()})
}

// dropPort clears the port metadata so the change event pairs with the
// removal, then removes the port.
func (g *Graph) dropPort(kind portKind, name string) {
	p, ok := kind.ports[name]
	if !ok {
		return
	}
	g.changePortMetadata(kind, name, p, clearPatch(p.Metadata))
	delete(kind.ports, name)

	g.emit(kind.remove, PortEvent{Name: name, Port: p.clone()})
}

// dropPortsOf removes, in name order, every port backed by node.
func (g *Graph) dropPortsOf(node string, kind portKind) {
	for _, name := range sortedKeys(kind.ports) {
		if p, ok := kind.ports[name]; ok && p.Process == node {
			g.dropPort(kind, name)
		}
	}
}
