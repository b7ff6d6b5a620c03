package domain

import (
	"maps"
	"strings"
)

// NodeType identifies the kind of step a node represents in a flow.
type NodeType string

const (
	// NodeTypeStart is the single entry point of a flow.
	NodeTypeStart NodeType = "start"
	// NodeTypeMessage sends a text message to the user.
	NodeTypeMessage NodeType = "message"
	// NodeTypeQuestion asks the user something and stores the answer in a variable.
	NodeTypeQuestion NodeType = "question"
	// NodeTypeSetVariable assigns a literal or expression to a variable.
	NodeTypeSetVariable NodeType = "set_variable"
	// NodeTypeCondition branches on a boolean expression.
	NodeTypeCondition NodeType = "condition"
	// NodeTypeAPI calls an external HTTP endpoint.
	NodeTypeAPI NodeType = "api"
)

// PaletteTypes lists the node types a user can add to a flow, in toolbar order.
// The start node is created by the store and is never added by hand.
var PaletteTypes = []NodeType{
	NodeTypeMessage,
	NodeTypeQuestion,
	NodeTypeSetVariable,
	NodeTypeCondition,
	NodeTypeAPI,
}

var paletteLabels = map[NodeType]string{
	NodeTypeStart:       "Start",
	NodeTypeMessage:     "Message",
	NodeTypeQuestion:    "Question",
	NodeTypeSetVariable: "Set Variable",
	NodeTypeCondition:   "Condition",
	NodeTypeAPI:         "API Call",
}

// Label returns the human-readable palette label of the type.
func (t NodeType) Label() string {
	if l, ok := paletteLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the six known node types.
func (t NodeType) Valid() bool {
	_, ok := paletteLabels[t]
	return ok
}

// DefaultName returns the name given to freshly added nodes: the type with its
// first letter upper-cased, followed by " Node" (e.g. "Set_variable Node").
func (t NodeType) DefaultName() string {
	s := string(t)
	if s == "" {
		return "Node"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Node"
}

// HTTPMethod is the verb used by an API node.
type HTTPMethod string

const (
	MethodGet    HTTPMethod = "GET"
	MethodPost   HTTPMethod = "POST"
	MethodPut    HTTPMethod = "PUT"
	MethodDelete HTTPMethod = "DELETE"
)

// Valid reports whether m is one of the supported verbs.
func (m HTTPMethod) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Position is the advisory canvas coordinate of a node.
type Position struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Node is a single step of the flow.
// The type-specific fields live in Payload, whose concrete type determines Type().
type Node struct {
	ID       string
	Name     string
	Position Position
	IsStart  bool

	Payload Payload

	// Extra holds document keys that are not part of the node schema.
	// They are kept so that an imported document exports unchanged.
	Extra map[string]any
}

// Type returns the node type derived from its payload.
func (n Node) Type() NodeType {
	if n.Payload == nil {
		return ""
	}
	return n.Payload.Kind()
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Payload != nil {
		c.Payload = n.Payload.clone()
	}
	if n.Extra != nil {
		c.Extra = maps.Clone(n.Extra)
	}
	return c
}

// Payload is the sealed union of type-specific node data.
// Only the variants declared in this package implement it.
type Payload interface {
	Kind() NodeType
	fields() []field
	clone() Payload
}

// field is a named payload value, in document order.
type field struct {
	key   string
	value any
}

// StartPayload carries no data; it marks the flow entry point.
type StartPayload struct{}

func (StartPayload) Kind() NodeType { return NodeTypeStart }
func (StartPayload) fields() []field { return nil }
func (p StartPayload) clone() Payload { return p }

// MessagePayload is the data of a message node.
type MessagePayload struct {
	Message string `mapstructure:"message"`
}

func (MessagePayload) Kind() NodeType { return NodeTypeMessage }
func (p MessagePayload) clone() Payload { return p }
func (p MessagePayload) fields() []field {
	return []field{{"message", p.Message}}
}

// QuestionPayload is the data of a question node.
type QuestionPayload struct {
	Question string `mapstructure:"question"`
	Variable string `mapstructure:"variable"`
}

func (QuestionPayload) Kind() NodeType { return NodeTypeQuestion }
func (p QuestionPayload) clone() Payload { return p }
func (p QuestionPayload) fields() []field {
	return []field{{"question", p.Question}, {"variable", p.Variable}}
}

// SetVariablePayload is the data of a set_variable node.
// Value is either a literal or an expression; it is never evaluated here.
type SetVariablePayload struct {
	VariableName string `mapstructure:"variableName"`
	Value        string `mapstructure:"value"`
}

func (SetVariablePayload) Kind() NodeType { return NodeTypeSetVariable }
func (p SetVariablePayload) clone() Payload { return p }
func (p SetVariablePayload) fields() []field {
	return []field{{"variableName", p.VariableName}, {"value", p.Value}}
}

// ConditionPayload is the data of a condition node.
type ConditionPayload struct {
	Condition string `mapstructure:"condition"`
}

func (ConditionPayload) Kind() NodeType { return NodeTypeCondition }
func (p ConditionPayload) clone() Payload { return p }
func (p ConditionPayload) fields() []field {
	return []field{{"condition", p.Condition}}
}

// APIPayload is the data of an api node.
// Body is raw text (conventionally JSON) and is not parsed.
type APIPayload struct {
	Endpoint string            `mapstructure:"apiEndpoint"`
	Method   HTTPMethod        `mapstructure:"method"`
	Headers  map[string]string `mapstructure:"headers"`
	Body     string            `mapstructure:"body"`
}

func (APIPayload) Kind() NodeType { return NodeTypeAPI }

func (p APIPayload) clone() Payload {
	if p.Headers != nil {
		p.Headers = maps.Clone(p.Headers)
	}
	return p
}

func (p APIPayload) fields() []field {
	fs := []field{{"apiEndpoint", p.Endpoint}, {"method", string(p.Method)}}
	if len(p.Headers) > 0 {
		fs = append(fs, field{"headers", maps.Clone(p.Headers)})
	}
	return append(fs, field{"body", p.Body})
}

// EmptyPayload returns the zero payload variant for t, or nil when t is unknown.
func EmptyPayload(t NodeType) Payload {
	switch t {
	case NodeTypeStart:
		return StartPayload{}
	case NodeTypeMessage:
		return MessagePayload{}
	case NodeTypeQuestion:
		return QuestionPayload{}
	case NodeTypeSetVariable:
		return SetVariablePayload{}
	case NodeTypeCondition:
		return ConditionPayload{}
	case NodeTypeAPI:
		return APIPayload{}
	}
	return nil
}

// payloadKeys returns the document keys owned by the payload of type t.
func payloadKeys(t NodeType) []string {
	p := EmptyPayload(t)
	if p == nil {
		return nil
	}
	if t == NodeTypeAPI {
		return []string{"apiEndpoint", "method", "headers", "body"}
	}
	fs := p.fields()
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.key
	}
	return keys
}
