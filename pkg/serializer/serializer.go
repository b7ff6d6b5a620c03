package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/flowcraft/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format is an encoding of the flow document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user-supplied name ("json", "yaml", "yml") to a Format.
// An empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Decode parses data into a flow document.
// Every failure wraps domain.ErrInvalidDocument.
func Decode(data []byte, f Format) (*domain.FlowData, error) {
	var (
		raw any
		err error
	)
	switch f {
	case FormatYAML:
		raw, err = decodeYAML(data)
	default:
		raw, err = decodeJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	root, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: root must be an object, got %T", domain.ErrInvalidDocument, raw)
	}
	return domain.FlowDataFromMap(root)
}

// decodeJSON keeps numbers as json.Number so unknown keys re-export unchanged.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after the document")
	}
	return raw, nil
}

func decodeYAML(data []byte) (any, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("empty document")
	}
	return raw, nil
}

// Encode renders the document. JSON output is indented by two spaces.
func Encode(doc *domain.FlowData, f Format) ([]byte, error) {
	if doc == nil {
		doc = &domain.FlowData{}
	}
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode flow as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode flow as json: %w", err)
		}
		return b, nil
	}
}

// ReadFile loads a document from disk, choosing the format by extension.
func ReadFile(path string) (*domain.FlowData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	doc, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteFile stores the document on disk, choosing the format by extension.
func WriteFile(path string, doc *domain.FlowData) error {
	data, err := Encode(doc, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write flow file: %w", err)
	}
	return nil
}

// ExportFileName returns the suggested download name for an export made at t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("workflow-%d.json", t.UnixMilli())
}
