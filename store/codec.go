package store

import (
	"encoding/json"
	"fmt"

	"github.com/smallnest/fbpgraph/graph"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Marshal encodes a record in the given format
func Marshal(record *Record, format graph.Format) ([]byte, error) {
	switch format {
	case graph.FormatJSON:
		return json.Marshal(record)
	case graph.FormatYAML:
		return yaml.Marshal(record)
	case graph.FormatMsgpack:
		return msgpack.Marshal(record)
	default:
		return nil, fmt.Errorf("unsupported format %s", format)
	}
}

// Unmarshal decodes a record encoded by Marshal
func Unmarshal(data []byte, format graph.Format) (*Record, error) {
	var record Record
	var err error
	switch format {
	case graph.FormatJSON:
		err = json.Unmarshal(data, &record)
	case graph.FormatYAML:
		err = yaml.Unmarshal(data, &record)
	case graph.FormatMsgpack:
		err = msgpack.Unmarshal(data, &record)
	default:
		err = fmt.Errorf("unsupported format %s", format)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
