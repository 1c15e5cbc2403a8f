package graph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the graph document to path, encoded according to the file
// extension. The file is replaced atomically, so a failed save never
// leaves a truncated document behind.
func (g *Graph) Save(path string) error {
	data, err := MarshalDocument(g.ToJSON(), FormatFromPath(path))
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &DocumentError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &DocumentError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &DocumentError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &DocumentError{Op: "write", Path: path, Err: err}
	}

	g.logger.Info("graph %q saved to %s", g.Name, path)
	return nil
}

// LoadFile reads a graph document from path and builds a graph from it.
// metadata is attached to the load_json transaction.
func LoadFile(path string, metadata Metadata, opts ...Option) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Op: "read", Path: path, Err: err}
	}

	doc, err := UnmarshalDocument(data, FormatFromPath(path))
	if err != nil {
		var de *DocumentError
		if errors.As(err, &de) {
			de.Path = path
		}
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, &DocumentError{Op: "decode", Path: path, Err: err}
	}

	g, err := FromJSON(doc, metadata, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	g.logger.Info("graph %q loaded from %s", g.Name, path)
	return g, nil
}
