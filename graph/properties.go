package graph

// Reserved property names. They are derived from the graph itself or from
// the host environment and never persisted.
const (
	PropertyName            = "name"
	PropertyBaseDir         = "baseDir"
	PropertyComponentLoader = "componentLoader"
)

// SetProperties merges patch into the graph properties. A nil value
// deletes the key.
func (g *Graph) SetProperties(patch Metadata) *Graph {
	g.begin()
	defer g.commit()

	before := g.properties.Clone()
	g.properties.Apply(patch)

	g.emit(EventChangeProperties, PropertiesChange{
		Properties: g.properties.Clone(),
		Before:     before,
		Patch:      patch.Clone(),
	})
	return g
}
