package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

var (
	// ErrUnsupportedFormat is returned for sources whose extension names no known format
	ErrUnsupportedFormat = errors.New("unsupported model format")
	// ErrTooLarge is returned for sources over the size cap, compressed or not
	ErrTooLarge = errors.New("model too large")
)

// Format of a serialized entity model
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Snappy suffixes wrap any format in block-compressed snappy
var compressedSuffixes = []string{".sz", ".snappy"}

// document is the object form of a model file
type document struct {
	Entities []model.EntityNode `json:"entities" yaml:"entities"`
}

// DetectFormat derives the format from a file name or object key, for
// example "model.yaml", "model.json.sz".
func DetectFormat(name string) (Format, bool, error) {
	ext := strings.ToLower(path.Ext(name))
	compressed := false
	for _, suffix := range compressedSuffixes {
		if ext == suffix {
			compressed = true
			name = strings.TrimSuffix(name, path.Ext(name))
			ext = strings.ToLower(path.Ext(name))
			break
		}
	}

	switch ext {
	case ".json":
		return FormatJSON, compressed, nil
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Decode parses a model. Both a bare list of entities and an object with an
// "entities" key are accepted. Empty input yields an empty model.
func Decode(data []byte, format Format) ([]model.EntityNode, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeCompressed undoes snappy block compression, then decodes. The
// decompressed size is capped at DefaultMaxBytes.
func DecodeCompressed(data []byte, format Format) ([]model.EntityNode, error) {
	return decodeCompressed(data, format, DefaultMaxBytes)
}

func decodeCompressed(data []byte, format Format, maxBytes int64) ([]model.EntityNode, error) {
	raw, err := decompress(data, maxBytes)
	if err != nil {
		return nil, err
	}
	return Decode(raw, format)
}

// decompress checks the length claimed by the snappy header before
// allocating the output buffer.
func decompress(data []byte, maxBytes int64) ([]byte, error) {
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress model: %w", err)
	}
	if int64(n) > maxBytes {
		return nil, fmt.Errorf("%w: decompresses to %d bytes, limit %d", ErrTooLarge, n, maxBytes)
	}
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress model: %w", err)
	}
	return raw, nil
}

func decodeJSON(data []byte) ([]model.EntityNode, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.EntityNode{}, nil
	}

	if trimmed[0] == '[' {
		var nodes []model.EntityNode
		if err := json.Unmarshal(trimmed, &nodes); err != nil {
			return nil, fmt.Errorf("failed to parse JSON model: %w", err)
		}
		return orEmpty(nodes), nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON model: %w", err)
	}
	return orEmpty(doc.Entities), nil
}

func decodeYAML(data []byte) ([]model.EntityNode, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse YAML model: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return []model.EntityNode{}, nil
	}

	body := root.Content[0]
	switch body.Kind {
	case yaml.SequenceNode:
		var nodes []model.EntityNode
		if err := body.Decode(&nodes); err != nil {
			return nil, fmt.Errorf("failed to parse YAML model: %w", err)
		}
		return orEmpty(nodes), nil
	case yaml.MappingNode:
		var doc document
		if err := body.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML model: %w", err)
		}
		return orEmpty(doc.Entities), nil
	default:
		return nil, fmt.Errorf("failed to parse YAML model: expected a list or a mapping at line %d", body.Line)
	}
}

// Encode serializes a model in object form.
func Encode(nodes []model.EntityNode, format Format) ([]byte, error) {
	doc := document{Entities: orEmpty(nodes)}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func orEmpty(nodes []model.EntityNode) []model.EntityNode {
	if nodes == nil {
		return []model.EntityNode{}
	}
	return nodes
}
