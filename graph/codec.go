package graph

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects the encoding of a graph document
type Format int

const (
	// FormatJSON is the canonical encoding
	FormatJSON Format = iota
	// FormatYAML is a hand-editable encoding of the same structure
	FormatYAML
	// FormatMsgpack is a compact binary encoding of the same structure
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mpk":
		return FormatMsgpack
	default:
		return FormatJSON
	}
}

// MarshalDocument encodes doc in the given format
func MarshalDocument(doc *Document, format Format) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = json.Marshal(doc)
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatMsgpack:
		data, err = msgpack.Marshal(doc)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, &DocumentError{Op: "encode", Err: err}
	}
	return data, nil
}

// UnmarshalDocument decodes a document. Decoding failures wrap
// ErrInvalidDocument.
func UnmarshalDocument(data []byte, format Format) (*Document, error) {
	var (
		doc Document
		err error
	)
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, &DocumentError{Op: "decode", Err: fmt.Errorf("%w: %w", ErrInvalidDocument, err)}
	}
	return &doc, nil
}
