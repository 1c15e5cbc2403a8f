package graph

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/smallnest/fbpgraph/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "caseSensitive": false,
  "properties": {"name": "Main", "baseDir": "/srv/project", "description": "reads a file"},
  "inports": {"FILE": {"process": "Read", "port": "Source"}},
  "outports": {},
  "groups": [{"name": "io", "nodes": ["Read", "Display"], "metadata": {"description": "I/O"}}],
  "processes": {
    "Read": {"component": "ReadFile"},
    "Display": {"component": "Display", "metadata": {"x": 10, "y": 20}}
  },
  "connections": [
    {"src": {"process": "Read", "port": "out"}, "tgt": {"process": "Display", "port": "in", "index": 2}},
    {"data": "somefile.txt", "tgt": {"process": "Read", "port": "source"}}
  ]
}`

func TestFromJSONString(t *testing.T) {
	g, err := FromJSONString(sampleJSON, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)

	assert.Equal(t, "Main", g.Name)
	assert.Equal(t, Metadata{"baseDir": "/srv/project", "description": "reads a file"}, g.Properties())
	assert.Len(t, g.Nodes(), 2)

	display, ok := g.GetNode("Display")
	require.True(t, ok)
	assert.Equal(t, Metadata{"x": float64(10), "y": float64(20)}, display.Metadata)

	_, ok = g.GetEdgeIndex("Read", "out", nil, "Display", "in", Index(2))
	assert.True(t, ok)

	initials := g.Initials()
	require.Len(t, initials, 1)
	assert.Equal(t, "somefile.txt", initials[0].Data)

	p, ok := g.GetInport("file")
	require.True(t, ok)
	assert.Equal(t, "source", p.Port)

	gr, ok := g.GetGroup("io")
	require.True(t, ok)
	assert.Equal(t, []string{"Read", "Display"}, gr.Nodes)
}

func TestFromJSONRunsInOneTransaction(t *testing.T) {
	doc, err := UnmarshalDocument([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)

	var events []Event
	opts := []Option{WithLogger(&log.NoOpLogger{})}
	for _, name := range AllEvents {
		opts = append(opts, WithListener(name, ListenerFunc(func(e Event) {
			events = append(events, e)
		})))
	}
	_, err = FromJSON(doc, Metadata{"source": "test"}, opts...)
	require.NoError(t, err)

	names := make([]EventName, 0, len(events))
	for _, e := range events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []EventName{
		EventStartTransaction,
		EventChangeProperties,
		EventAddNode, EventAddNode,
		EventAddEdge, EventAddInitial,
		EventAddInport,
		EventAddGroup,
		EventEndTransaction,
	}, names)

	start := events[0].Data.(TransactionEvent)
	assert.Equal(t, LoadTransaction, start.ID)
	assert.Equal(t, Metadata{"source": "test"}, start.Metadata)
	assert.Equal(t, "Display", events[2].Data.(Node).ID)
	assert.Equal(t, "Read", events[3].Data.(Node).ID)
}

func TestToJSON(t *testing.T) {
	g := buildSample(t)
	doc := g.ToJSON()

	assert.False(t, doc.CaseSensitive)
	assert.Equal(t, Metadata{"name": "Sample", "description": "sample graph"}, doc.Properties)
	assert.Equal(t, ProcessDocument{Component: "SplitStr"}, doc.Processes["Split"])
	assert.Equal(t, PortDocument{Process: "Read", Port: "source"}, doc.Inports["file"])

	require.Len(t, doc.Connections, 5)
	for _, conn := range doc.Connections[:3] {
		assert.False(t, conn.IsInitial())
	}
	for _, conn := range doc.Connections[3:] {
		assert.True(t, conn.IsInitial())
	}
	assert.Nil(t, doc.Connections[0].Metadata)
	assert.Equal(t, 1, *doc.Connections[1].Tgt.Index)
	assert.Equal(t, GroupDocument{Name: "logic", Nodes: []string{"Split"}}, doc.Groups[1])
}

func TestToJSONOmitsEmptyMetadata(t *testing.T) {
	g := newTestGraph("Main")
	g.AddNode("A", "Comp", nil).AddNode("B", "Comp", nil)
	g.AddEdge("A", "out", "B", "in", nil)

	data, err := g.ToJSONString()
	require.NoError(t, err)
	assert.NotContains(t, data, "metadata")
	assert.NotContains(t, data, "index")
	assert.Contains(t, data, `"name":"Main"`)
}

func TestJSONRoundTrip(t *testing.T) {
	g := buildSample(t)
	data, err := g.ToJSONString()
	require.NoError(t, err)

	loaded, err := FromJSONString(data, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.Equal(t, g.ToJSON(), loaded.ToJSON())

	again, err := FromJSON(loaded.ToJSON(), nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.Equal(t, loaded.ToJSON(), again.ToJSON())
}

func TestMarshalJSON(t *testing.T) {
	g := buildSample(t)
	direct, err := json.Marshal(g)
	require.NoError(t, err)
	viaString, err := g.ToJSONString()
	require.NoError(t, err)
	assert.JSONEq(t, viaString, string(direct))
}

func TestCaseSensitiveDocument(t *testing.T) {
	g := newTestGraph("Main", WithCaseSensitive(true))
	g.AddNode("A", "Comp", nil).AddNode("B", "Comp", nil)
	g.AddEdge("A", "Out", "B", "In", nil)

	loaded, err := FromJSON(g.ToJSON(), nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.True(t, loaded.CaseSensitive())
	_, ok := loaded.GetEdge("A", "Out", "B", "In")
	assert.True(t, ok)
}

func TestDataBearingConnectionIsInitial(t *testing.T) {
	source := `{"processes": {"A": {"component": "Comp"}, "B": {"component": "Comp"}},
	  "connections": [
	    {"src": {"process": "A", "port": "out"}, "tgt": {"process": "B", "port": "in"}, "data": 5},
	    {"tgt": {"process": "B", "port": "options"}}
	  ]}`
	g, err := FromJSONString(source, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)

	assert.Empty(t, g.Edges())
	initials := g.Initials()
	require.Len(t, initials, 2)
	assert.Equal(t, float64(5), initials[0].Data)
	assert.Nil(t, initials[1].Data)
}

func TestFromJSONSkipsDanglingReferences(t *testing.T) {
	source := `{"processes": {"A": {"component": "Comp"}},
	  "inports": {"in": {"process": "Missing", "port": "in"}},
	  "connections": [{"src": {"process": "A", "port": "out"}, "tgt": {"process": "Missing", "port": "in"}}]}`
	g, err := FromJSONString(source, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.Empty(t, g.Edges())
	assert.Empty(t, g.Inports())
	assert.Equal(t, "", g.Name)
}

func TestInvalidDocuments(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"malformed", `{"processes": [`},
		{"wrong shape", `{"processes": ["A"]}`},
		{"name not a string", `{"properties": {"name": 5}}`},
		{"connection without target", `{"connections": [{"src": {"process": "A", "port": "out"}}]}`},
		{"target without process", `{"connections": [{"data": 1, "tgt": {"port": "in"}}]}`},
		{"source without process", `{"connections": [{"src": {"port": "out"}, "tgt": {"process": "A", "port": "in"}}]}`},
		{"inport without process", `{"inports": {"in": {"port": "in"}}}`},
		{"outport without process", `{"outports": {"out": {"port": "out"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromJSONString(tt.source, nil, WithLogger(&log.NoOpLogger{}))
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrInvalidDocument)
		})
	}
}

func TestDecodeErrorCarriesOp(t *testing.T) {
	_, err := UnmarshalDocument([]byte("{"), FormatJSON)
	var de *DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "decode", de.Op)
	assert.Contains(t, err.Error(), "graph document decode")
}

func TestValidateNilDocument(t *testing.T) {
	var doc *Document
	assert.ErrorIs(t, doc.Validate(), ErrInvalidDocument)
	_, err := FromJSON(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestLoadSkipsUnknownGroupMembers(t *testing.T) {
	g, err := FromJSONString(`{
  "processes": {"Read": {"component": "ReadFile"}},
  "groups": [{"name": "io", "nodes": ["Read", "Missing", "Read"]}]
}`, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)

	gr, ok := g.GetGroup("io")
	require.True(t, ok)
	assert.Equal(t, []string{"Read"}, gr.Nodes)
}
