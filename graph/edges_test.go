package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNodes() *Graph {
	g := newTestGraph("Main")
	g.AddNode("A", "Comp", nil).AddNode("B", "Comp", nil)
	return g
}

func TestAddEdge(t *testing.T) {
	g := twoNodes()
	events := record(g)

	g.AddEdge("A", "OUT", "B", "In", Metadata{"route": 1})

	e, ok := g.GetEdge("A", "out", "B", "in")
	require.True(t, ok)
	assert.Equal(t, Leaf{NodeID: "A", Port: "out"}, e.From)
	assert.Equal(t, Leaf{NodeID: "B", Port: "in"}, e.To)
	assert.Equal(t, Metadata{"route": 1}, e.Metadata)
	assert.Equal(t, []EventName{EventStartTransaction, EventAddEdge, EventEndTransaction}, events.names())
}

func TestAddEdgeRequiresBothNodes(t *testing.T) {
	g := twoNodes()
	g.AddEdge("A", "out", "Missing", "in", nil)
	g.AddEdge("Missing", "out", "B", "in", nil)
	assert.Empty(t, g.Edges())
}

func TestAddEdgeDeduplicates(t *testing.T) {
	g := twoNodes()
	events := record(g)

	g.AddEdge("A", "out", "B", "in", nil)
	g.AddEdge("A", "out", "B", "in", nil)
	g.AddEdge("A", "Out", "B", "IN", nil)
	g.AddEdgeIndex("A", "out", nil, "B", "in", Index(2), nil)
	g.AddEdgeIndex("A", "out", nil, "B", "in", Index(2), nil)

	assert.Len(t, g.Edges(), 2)
	assert.Equal(t, 2, events.count(EventAddEdge))
}

func TestCaseSensitivePorts(t *testing.T) {
	g := newTestGraph("Main", WithCaseSensitive(true))
	g.AddNode("A", "Comp", nil).AddNode("B", "Comp", nil)
	g.AddEdge("A", "Out", "B", "In", nil)
	g.AddEdge("A", "out", "B", "in", nil)

	assert.Len(t, g.Edges(), 2)
	_, ok := g.GetEdge("A", "Out", "B", "In")
	assert.True(t, ok)
	assert.True(t, g.CaseSensitive())
	assert.Equal(t, "Out", g.PortName("Out"))
}

func TestGetEdgeIndex(t *testing.T) {
	g := twoNodes()
	g.AddEdgeIndex("A", "out", Index(0), "B", "in", Index(3), nil)

	_, ok := g.GetEdgeIndex("A", "out", Index(0), "B", "in", Index(3))
	assert.True(t, ok)
	_, ok = g.GetEdgeIndex("A", "out", nil, "B", "in", Index(3))
	assert.False(t, ok)
	_, ok = g.GetEdge("A", "out", "B", "in")
	assert.True(t, ok)
}

func TestRemoveEdgeBetweenPorts(t *testing.T) {
	g := twoNodes()
	g.AddNode("C", "Comp", nil)
	g.AddEdge("A", "out", "B", "in", Metadata{"color": "red"})
	g.AddEdgeIndex("A", "out", nil, "B", "in", Index(1), nil)
	g.AddEdge("A", "out", "C", "in", nil)
	events := record(g)

	g.RemoveEdge("A", "out", "B", "in")

	require.Len(t, g.Edges(), 1)
	assert.Equal(t, "C", g.Edges()[0].To.NodeID)
	assert.Equal(t, []EventName{
		EventStartTransaction,
		EventChangeEdge, EventRemoveEdge,
		EventChangeEdge, EventRemoveEdge,
		EventEndTransaction,
	}, events.names())
	cleared := events.events[1].Data.(EdgeChange)
	assert.Equal(t, Metadata{"color": nil}, cleared.Patch)
}

func TestRemoveEdgeDisconnectsPort(t *testing.T) {
	g := twoNodes()
	g.AddNode("C", "Comp", nil)
	g.AddEdge("A", "out", "B", "in", nil)
	g.AddEdge("A", "out", "C", "in", nil)
	g.AddEdge("C", "out", "A", "out", nil)
	g.AddEdge("A", "error", "C", "in", nil)

	g.RemoveEdge("A", "out", "", "")

	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "error", edges[0].From.Port)
}

func TestRemoveEdgeIsOneTransaction(t *testing.T) {
	g := twoNodes()
	g.AddNode("C", "Comp", nil)
	g.AddEdge("A", "out", "B", "in", nil)
	g.AddEdge("A", "out", "C", "in", nil)
	events := record(g)

	g.RemoveEdge("A", "out", "", "")

	assert.Equal(t, 1, events.count(EventStartTransaction))
	assert.Equal(t, 2, events.count(EventRemoveEdge))
}

func TestSetEdgeMetadata(t *testing.T) {
	g := twoNodes()
	g.AddEdge("A", "out", "B", "in", Metadata{"route": 1})
	events := record(g)

	g.SetEdgeMetadata("A", "out", "B", "in", Metadata{"route": nil, "label": "main"})

	e, _ := g.GetEdge("A", "out", "B", "in")
	assert.Equal(t, Metadata{"label": "main"}, e.Metadata)
	change := events.events[1].Data.(EdgeChange)
	assert.Equal(t, Metadata{"route": 1}, change.Before)
}
