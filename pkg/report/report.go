// Package report writes analysis reports for people and tools: indented
// JSON (optionally snappy compressed, optionally with a graph layout
// attached) and a styled terminal summary.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/visualization"
)

var (
	// ErrEmptyReport is returned when writing a nil report
	ErrEmptyReport = errors.New("report is empty")
	// ErrTooLarge is returned when reading a report over MaxDocumentBytes
	ErrTooLarge = errors.New("report too large")
)

// MaxDocumentBytes caps the decompressed size of a report read back by ReadFile
const MaxDocumentBytes = 256 << 20

// Document is the serialized form of a report
type Document struct {
	*analysis.Report
	Layout *visualization.Visualization `json:"layout,omitempty"`
}

// NewDocument wraps r. A non-empty layout name attaches positions computed
// over the annotated entities.
func NewDocument(r *analysis.Report, layout string, config visualization.LayoutConfig) (*Document, error) {
	if r == nil {
		return nil, ErrEmptyReport
	}
	doc := &Document{Report: r}
	if layout == "" {
		return doc, nil
	}

	viz, err := visualization.Render(layout, config, r.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to lay out report: %w", err)
	}
	doc.Layout = viz
	return doc, nil
}

// WriteJSON writes the document as indented JSON
func WriteJSON(w io.Writer, doc *Document) error {
	if doc == nil || doc.Report == nil {
		return ErrEmptyReport
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// Compressed reports whether a path names a snappy compressed file
func Compressed(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return true
	}
	return false
}

// WriteFile writes the document as JSON to path. Paths ending in .sz or
// .snappy are block compressed.
func WriteFile(path string, doc *Document) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, doc); err != nil {
		return err
	}

	data := buf.Bytes()
	if Compressed(path) {
		data = snappy.Encode(nil, data)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a document written by WriteFile
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	if Compressed(path) {
		n, err := snappy.DecodedLen(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress report %s: %w", path, err)
		}
		if n > MaxDocumentBytes {
			return nil, fmt.Errorf("%w: %s decompresses to %d bytes", ErrTooLarge, path, n)
		}
		if data, err = snappy.Decode(nil, data); err != nil {
			return nil, fmt.Errorf("failed to decompress report %s: %w", path, err)
		}
	} else if len(data) > MaxDocumentBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, len(data))
	}

	doc := &Document{Report: &analysis.Report{}}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", path, err)
	}
	return doc, nil
}
