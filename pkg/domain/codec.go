package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Document keys shared by every node type.
const (
	KeyID       = "id"
	KeyType     = "type"
	KeyName     = "name"
	KeyPosition = "position"
	KeyIsStart  = "isStart"
)

var commonKeys = []string{KeyID, KeyType, KeyName, KeyPosition, KeyIsStart}

// nodeHeader mirrors the common part of a node entry in the document.
type nodeHeader struct {
	ID       string   `mapstructure:"id"`
	Type     NodeType `mapstructure:"type"`
	Name     string   `mapstructure:"name"`
	Position Position `mapstructure:"position"`
	IsStart  bool     `mapstructure:"isStart"`
}

// entries returns the populated document fields of the node in canonical order:
// common keys, then payload fields, then extra keys sorted by name.
func (n Node) entries() []field {
	fs := []field{
		{KeyID, n.ID},
		{KeyType, string(n.Type())},
		{KeyName, n.Name},
		{KeyPosition, n.Position},
	}
	if n.IsStart {
		fs = append(fs, field{KeyIsStart, true})
	}
	owned := map[string]bool{}
	for _, k := range commonKeys {
		owned[k] = true
	}
	if n.Payload != nil {
		for _, f := range n.Payload.fields() {
			owned[f.key] = true
			if populated(f.value) {
				fs = append(fs, f)
			}
		}
		for _, k := range payloadKeys(n.Type()) {
			owned[k] = true
		}
	}
	for _, k := range slices.Sorted(maps.Keys(n.Extra)) {
		if !owned[k] {
			fs = append(fs, field{k, n.Extra[k]})
		}
	}
	return fs
}

func populated(v any) bool {
	switch t := v.(type) {
	case string:
		return t != ""
	case map[string]string:
		return len(t) > 0
	case nil:
		return false
	}
	return true
}

// ToMap returns the document representation of the node as a generic map.
// Only populated payload fields are included.
func (n Node) ToMap() map[string]any {
	m := make(map[string]any)
	for _, f := range n.entries() {
		if p, ok := f.value.(Position); ok {
			m[f.key] = map[string]any{"x": p.X, "y": p.Y}
			continue
		}
		m[f.key] = f.value
	}
	return m
}

// NodeFromMap builds a node from its document representation.
// Missing name, position and isStart default to their zero values; id and type are required.
// Keys the node type does not own are preserved in Extra.
func NodeFromMap(m map[string]any) (Node, error) {
	var h nodeHeader
	if err := decodeInto(m, &h); err != nil {
		return Node{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if h.ID == "" {
		return Node{}, fmt.Errorf("%w: node is missing a string %q", ErrInvalidDocument, KeyID)
	}
	if !finite(h.Position.X) || !finite(h.Position.Y) {
		return Node{}, fmt.Errorf("%w: node %q position must be finite", ErrInvalidDocument, h.ID)
	}
	payload, err := decodePayload(h.Type, m)
	if err != nil {
		return Node{}, fmt.Errorf("node %q: %w", h.ID, err)
	}

	n := Node{
		ID:       h.ID,
		Name:     h.Name,
		Position: h.Position,
		IsStart:  h.IsStart,
		Payload:  payload,
	}

	owned := map[string]bool{}
	for _, k := range commonKeys {
		owned[k] = true
	}
	for _, k := range payloadKeys(h.Type) {
		owned[k] = true
	}
	for k, v := range m {
		if owned[k] {
			continue
		}
		clean, err := plainValue(v)
		if err != nil {
			return Node{}, fmt.Errorf("%w: node %q key %q: %v", ErrInvalidDocument, h.ID, k, err)
		}
		if n.Extra == nil {
			n.Extra = make(map[string]any)
		}
		n.Extra[k] = clean
	}
	return n, nil
}

// plainValue rewrites v into values every document format can encode:
// YAML mappings with non-string keys get their keys stringified, and
// non-finite numbers are rejected.
func plainValue(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			clean, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = clean
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			clean, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[fmt.Sprint(k)] = clean
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			clean, err := plainValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	case float64:
		if !finite(t) {
			return nil, fmt.Errorf("non-finite number %v", t)
		}
	case float32:
		if !finite(float64(t)) {
			return nil, fmt.Errorf("non-finite number %v", t)
		}
	}
	return v, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func decodePayload(t NodeType, m map[string]any) (Payload, error) {
	var (
		p   Payload
		err error
	)
	switch t {
	case NodeTypeStart:
		p = StartPayload{}
	case NodeTypeMessage:
		var v MessagePayload
		err = decodeInto(m, &v)
		p = v
	case NodeTypeQuestion:
		var v QuestionPayload
		err = decodeInto(m, &v)
		p = v
	case NodeTypeSetVariable:
		var v SetVariablePayload
		err = decodeInto(m, &v)
		p = v
	case NodeTypeCondition:
		var v ConditionPayload
		err = decodeInto(m, &v)
		p = v
	case NodeTypeAPI:
		var v APIPayload
		err = decodeInto(m, &v)
		p = v
	case "":
		return nil, fmt.Errorf("%w: node is missing a string %q", ErrInvalidDocument, KeyType)
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidDocument, ErrUnknownNodeType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return p, nil
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

// rejectNumberAsString stops mapstructure from accepting a json.Number (a string
// kind) where the document requires a string.
func rejectNumberAsString(from, to reflect.Type, data any) (any, error) {
	if from == jsonNumberType && to.Kind() == reflect.String {
		return nil, fmt.Errorf("expected a string, got number %v", data)
	}
	return data, nil
}

func decodeInto(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		DecodeHook: rejectNumberAsString,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// MarshalJSON encodes the node as a flat document object in canonical key order.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range n.entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("node %q field %q: %w", n.ID, f.key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a flat document object into the node.
func (n *Node) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if m == nil {
		return fmt.Errorf("%w: node is not an object", ErrInvalidDocument)
	}
	decoded, err := NodeFromMap(m)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// MarshalYAML encodes the node as a mapping in canonical key order.
func (n Node) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range n.entries() {
		var v yaml.Node
		if err := v.Encode(f.value); err != nil {
			return nil, fmt.Errorf("node %q field %q: %w", n.ID, f.key, err)
		}
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key},
			&v,
		)
	}
	return out, nil
}

// UnmarshalYAML decodes a YAML mapping into the node.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]any
	if err := value.Decode(&m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if m == nil {
		return fmt.Errorf("%w: node is not a mapping", ErrInvalidDocument)
	}
	decoded, err := NodeFromMap(m)
	if err != nil {
		return err
	}
	*n = decoded
	return nil
}

// FlowDataFromMap builds a document from its generic representation.
// Both "nodes" and "edges" must be present and be lists.
func FlowDataFromMap(raw map[string]any) (*FlowData, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrInvalidDocument)
	}
	rawNodes, err := requireList(raw, "nodes")
	if err != nil {
		return nil, err
	}
	rawEdges, err := requireList(raw, "edges")
	if err != nil {
		return nil, err
	}

	doc := &FlowData{
		Nodes: make([]Node, 0, len(rawNodes)),
		Edges: make([]Edge, 0, len(rawEdges)),
	}
	for i, rn := range rawNodes {
		m, ok := rn.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: nodes[%d] is not an object", ErrInvalidDocument, i)
		}
		n, err := NodeFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("nodes[%d]: %w", i, err)
		}
		doc.Nodes = append(doc.Nodes, n)
	}
	for i, re := range rawEdges {
		m, ok := re.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: edges[%d] is not an object", ErrInvalidDocument, i)
		}
		e, err := EdgeFromMap(m)
		if err != nil {
			return nil, fmt.Errorf("edges[%d]: %w", i, err)
		}
		doc.Edges = append(doc.Edges, e)
	}
	return doc, nil
}

func requireList(raw map[string]any, key string) ([]any, error) {
	v, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q key", ErrInvalidDocument, key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array, got %T", ErrInvalidDocument, key, v)
	}
	return list, nil
}

// EdgeFromMap builds an edge from its document representation.
// A label that is not a string is treated as absent.
func EdgeFromMap(m map[string]any) (Edge, error) {
	var e Edge
	for key, dst := range map[string]*string{"id": &e.ID, "source": &e.Source, "target": &e.Target} {
		s, ok := m[key].(string)
		if !ok {
			return Edge{}, fmt.Errorf("%w: edge is missing a string %q", ErrInvalidDocument, key)
		}
		*dst = s
	}
	if label, ok := m["label"].(string); ok {
		e.Label = label
	}
	return e, nil
}

// MarshalJSON encodes the document, writing empty lists instead of null.
func (f FlowData) MarshalJSON() ([]byte, error) {
	type document FlowData
	d := document(f)
	if d.Nodes == nil {
		d.Nodes = []Node{}
	}
	if d.Edges == nil {
		d.Edges = []Edge{}
	}
	return json.Marshal(d)
}

// UnmarshalJSON decodes a document, rejecting anything that is not the canonical shape.
func (f *FlowData) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc, err := FlowDataFromMap(raw)
	if err != nil {
		return err
	}
	*f = *doc
	return nil
}

// UnmarshalYAML decodes a YAML document with the same rules as UnmarshalJSON.
func (f *FlowData) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc, err := FlowDataFromMap(raw)
	if err != nil {
		return err
	}
	*f = *doc
	return nil
}
