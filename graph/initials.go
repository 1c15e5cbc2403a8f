package graph

import "slices"

// AddInitial attaches an initial information packet carrying data to the
// inport of an existing node. IIPs are typically configuration: file
// names to read, network ports to listen on.
//
//	g.AddInitial("somefile.txt", "Read", "source", nil)
func (g *Graph) AddInitial(data any, node, port string, metadata Metadata) *Graph {
	return g.AddInitialIndex(data, node, port, nil, metadata)
}

// AddInitialIndex is AddInitial targeting a slot of an addressable port.
func (g *Graph) AddInitialIndex(data any, node, port string, index *int, metadata Metadata) *Graph {
	if !g.HasNode(node) {
		return g
	}

	g.begin()
	defer g.commit()

	iip := &initialRecord{
		seq: g.nextSeq(),
		Initial: Initial{
			Data:     cloneValue(data),
			To:       Leaf{NodeID: node, Port: g.PortName(port), Index: index}.clone(),
			Metadata: orEmpty(metadata),
		},
	}
	g.initials = append(g.initials, iip)
	g.adj.addInitial(iip)

	g.emit(EventAddInitial, iip.Initial.clone())
	return g
}

// AddGraphInitial attaches an IIP through an exported inport.
//
//	g.AddGraphInitial("somefile.txt", "file", nil)
func (g *Graph) AddGraphInitial(data any, inport string, metadata Metadata) *Graph {
	return g.AddGraphInitialIndex(data, inport, nil, metadata)
}

// AddGraphInitialIndex attaches an IIP to a slot through an exported inport.
func (g *Graph) AddGraphInitialIndex(data any, inport string, index *int, metadata Metadata) *Graph {
	p, ok := g.inports[g.PortName(inport)]
	if !ok {
		return g
	}
	return g.AddInitialIndex(data, p.Process, p.Port, index, metadata)
}

// RemoveInitial removes every IIP targeting node:port.
func (g *Graph) RemoveInitial(node, port string) *Graph {
	port = g.PortName(port)

	var doomed []*initialRecord
	for _, iip := range g.adj.initialsOf(node) {
		if iip.To.Port == port {
			doomed = append(doomed, iip)
		}
	}
	if len(doomed) == 0 {
		return g
	}

	g.begin()
	defer g.commit()

	for _, iip := range doomed {
		g.dropInitial(iip)
	}
	return g
}

// RemoveGraphInitial removes the IIPs attached through an exported inport.
func (g *Graph) RemoveGraphInitial(inport string) *Graph {
	p, ok := g.inports[g.PortName(inport)]
	if !ok {
		return g
	}
	return g.RemoveInitial(p.Process, p.Port)
}

func (g *Graph) dropInitial(iip *initialRecord) {
	if !slices.Contains(g.initials, iip) {
		return
	}
	g.initials = slices.DeleteFunc(g.initials, func(other *initialRecord) bool { return other == iip })
	g.adj.removeInitial(iip)

	g.emit(EventRemoveInitial, iip.Initial.clone())
}
