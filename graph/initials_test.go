package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInitial(t *testing.T) {
	g := newTestGraph("Main")
	g.AddNode("Read", "ReadFile", nil)
	events := record(g)

	g.AddInitial("somefile.txt", "Read", "Source", nil)
	g.AddInitial("ignored", "Missing", "in", nil)

	initials := g.Initials()
	require.Len(t, initials, 1)
	assert.Equal(t, "somefile.txt", initials[0].Data)
	assert.Equal(t, Leaf{NodeID: "Read", Port: "source"}, initials[0].To)
	assert.Equal(t, []EventName{EventStartTransaction, EventAddInitial, EventEndTransaction}, events.names())
}

func TestAddInitialIndexCopiesData(t *testing.T) {
	g := newTestGraph("Main")
	g.AddNode("Split", "SplitStr", nil)
	data := map[string]any{"delimiter": ","}

	g.AddInitialIndex(data, "Split", "options", Index(1), nil)
	data["delimiter"] = ";"

	iip := g.Initials()[0]
	assert.Equal(t, map[string]any{"delimiter": ","}, iip.Data)
	assert.Equal(t, 1, *iip.To.Index)
}

func TestGraphInitials(t *testing.T) {
	g := newTestGraph("Main")
	g.AddNode("Read", "ReadFile", nil)
	g.AddInport("FILE", "Read", "source", nil)

	g.AddGraphInitial("a.txt", "file", nil)
	g.AddGraphInitialIndex("b.txt", "File", Index(2), nil)
	g.AddGraphInitial("ignored", "missing", nil)

	initials := g.Initials()
	require.Len(t, initials, 2)
	assert.Equal(t, Leaf{NodeID: "Read", Port: "source"}, initials[0].To)
	assert.Equal(t, 2, *initials[1].To.Index)

	g.RemoveGraphInitial("file")
	assert.Empty(t, g.Initials())
}

func TestRemoveInitial(t *testing.T) {
	g := newTestGraph("Main")
	g.AddNode("Read", "ReadFile", nil)
	g.AddInitial("a.txt", "Read", "source", nil)
	g.AddInitialIndex("b.txt", "Read", "source", Index(0), nil)
	g.AddInitial("utf-8", "Read", "encoding", nil)
	events := record(g)

	g.RemoveInitial("Read", "SOURCE")

	initials := g.Initials()
	require.Len(t, initials, 1)
	assert.Equal(t, "utf-8", initials[0].Data)
	assert.Equal(t, []EventName{
		EventStartTransaction, EventRemoveInitial, EventRemoveInitial, EventEndTransaction,
	}, events.names())
}
