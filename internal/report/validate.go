package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
)

// ErrNotAReport is returned for documents that lack the aggregate/intermediate
// signature of a load-test report.
var ErrNotAReport = errors.New("not an artillery report")

// Validate checks the admission signature and decodes the document. Only the
// top-level shape is checked; inner fields are read defensively later.
func Validate(data []byte) (*Report, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrNotAReport)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrNotAReport)
	}
	if !doc.Get("aggregate").IsObject() {
		return nil, fmt.Errorf("%w: missing aggregate object", ErrNotAReport)
	}
	if !doc.Get("intermediate").IsArray() {
		return nil, fmt.Errorf("%w: missing intermediate array", ErrNotAReport)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAReport, err)
	}
	return &r, nil
}

// Parse reads a document from r and validates it.
func Parse(r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return Validate(data)
}

// Load reads and validates the report at path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	return Validate(data)
}
