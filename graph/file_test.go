package graph

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/smallnest/fbpgraph/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codecSample only uses string and bool values, which every format
// decodes back to the same Go types. The falsy packets guard against
// encoders that drop zero values.
func codecSample() *Graph {
	g := newTestGraph("Codec")
	g.SetProperties(Metadata{"description": "codec sample"})
	g.AddNode("Read", "ReadFile", Metadata{"label": "reader"})
	g.AddNode("Display", "Display", Metadata{"visible": true})
	g.AddEdgeIndex("Read", "out", nil, "Display", "in", Index(2), Metadata{"color": "blue"})
	g.AddInitial("somefile.txt", "Read", "source", nil)
	g.AddInitial(false, "Read", "recursive", nil)
	g.AddInitial("", "Read", "encoding", nil)
	g.AddInport("file", "Read", "source", nil)
	g.AddOutport("out", "Display", "out", Metadata{"color": "red"})
	g.AddGroup("io", []string{"Read", "Display"}, nil)
	return g
}

func TestSaveAndLoadFile(t *testing.T) {
	for _, name := range []string{"main.json", "main.yaml", "main.yml", "main.msgpack"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			g := codecSample()

			require.NoError(t, g.Save(path))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)

			loaded, err := LoadFile(path, nil, WithLogger(&log.NoOpLogger{}))
			require.NoError(t, err)
			assert.Equal(t, g.ToJSON(), loaded.ToJSON())
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.json")
	g := codecSample()
	require.NoError(t, g.Save(path))

	g.RemoveNode("Display")
	require.NoError(t, g.Save(path))

	loaded, err := LoadFile(path, nil, WithLogger(&log.NoOpLogger{}))
	require.NoError(t, err)
	assert.Len(t, loaded.Nodes(), 1)
}

func TestSaveToMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "main.json")
	err := codecSample().Save(path)

	var de *DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "write", de.Op)
	assert.Equal(t, path, de.Path)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.json")
	_, err := LoadFile(path, nil)

	assert.ErrorIs(t, err, fs.ErrNotExist)
	var de *DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "read", de.Op)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processes: [\n"), 0o644))

	_, err := LoadFile(path, nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
	var de *DocumentError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, path, de.Path)
}

func TestLoadStructurallyInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"connections": [{"data": 1}]}`), 0o644))

	_, err := LoadFile(path, nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"graph.json":    FormatJSON,
		"graph.fbp":     FormatJSON,
		"graph.YAML":    FormatYAML,
		"graph.yml":     FormatYAML,
		"graph.msgpack": FormatMsgpack,
		"graph.mpk":     FormatMsgpack,
	}
	for path, want := range tests {
		assert.Equal(t, want, FormatFromPath(path), path)
	}
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatJSON, "json"},
		{FormatYAML, "yaml"},
		{FormatMsgpack, "msgpack"},
		{Format(9), "Format(9)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.String())
	}
}

func TestMarshalDocumentFormats(t *testing.T) {
	doc := codecSample().ToJSON()
	for _, format := range []Format{FormatJSON, FormatYAML, FormatMsgpack} {
		data, err := MarshalDocument(doc, format)
		require.NoError(t, err, format.String())

		decoded, err := UnmarshalDocument(data, format)
		require.NoError(t, err, format.String())
		assert.Equal(t, doc, decoded, format.String())
	}

	_, err := MarshalDocument(doc, Format(9))
	assert.Error(t, err)
}

func TestZeroValuedInitialsSurviveEveryFormat(t *testing.T) {
	g := newTestGraph("Zero")
	g.AddNode("Count", "Counter", nil)
	g.AddInitial(0, "Count", "start", nil)
	g.AddInitial(false, "Count", "reset", nil)
	g.AddInitial("", "Count", "label", nil)

	for _, name := range []string{"zero.json", "zero.yaml", "zero.msgpack"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, g.Save(path))

			loaded, err := LoadFile(path, nil, WithLogger(&log.NoOpLogger{}))
			require.NoError(t, err)

			initials := loaded.Initials()
			require.Len(t, initials, 3)
			assert.EqualValues(t, 0, initials[0].Data)
			assert.Equal(t, false, initials[1].Data)
			assert.Equal(t, "", initials[2].Data)
			assert.Empty(t, loaded.Edges())
		})
	}
}
