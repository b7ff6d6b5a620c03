package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// Field names reported in validation errors.
const (
	FieldStart        = "start"
	FieldConnection   = "connection"
	FieldName         = "name"
	FieldMessage      = "message"
	FieldQuestion     = "question"
	FieldVariable     = "variable"
	FieldVariableName = "variableName"
	FieldValue        = "value"
	FieldCondition    = "condition"
	FieldAPIEndpoint  = "apiEndpoint"
	FieldMethod       = "method"
)

// Validate returns every problem found in the flow, in a stable order:
// the global start check first, then for each node (in the given order)
// its connection, name and type-specific field checks.
func Validate(nodes []domain.Node, edges []domain.Edge) []domain.ValidationError {
	var errs []domain.ValidationError

	hasStart := false
	for _, n := range nodes {
		if n.IsStart {
			hasStart = true
			break
		}
	}
	if !hasStart {
		errs = append(errs, domain.ValidationError{
			NodeID:  domain.GlobalNodeID,
			Field:   FieldStart,
			Message: "Flow must have at least one start node",
		})
	}

	connected := make(map[string]bool, len(edges)*2)
	for _, e := range edges {
		connected[e.Source] = true
		connected[e.Target] = true
	}

	for _, n := range nodes {
		errs = append(errs, checkNode(n, connected)...)
	}
	return errs
}

// ValidateFlow validates a whole document. A nil document has no start node.
func ValidateFlow(doc *domain.FlowData) []domain.ValidationError {
	if doc == nil {
		return Validate(nil, nil)
	}
	return Validate(doc.Nodes, doc.Edges)
}

func checkNode(n domain.Node, connected map[string]bool) []domain.ValidationError {
	var errs []domain.ValidationError
	add := func(field, msg string) {
		errs = append(errs, domain.ValidationError{NodeID: n.ID, Field: field, Message: msg})
	}

	if !n.IsStart && !connected[n.ID] {
		add(FieldConnection, fmt.Sprintf(`Node "%s" is not connected to any other node`, n.Name))
	}
	if blank(n.Name) {
		add(FieldName, "Node name is required")
	}

	switch p := n.Payload.(type) {
	case domain.MessagePayload:
		if blank(p.Message) {
			add(FieldMessage, "Message text is required")
		}
	case domain.QuestionPayload:
		if blank(p.Question) {
			add(FieldQuestion, "Question text is required")
		}
		if blank(p.Variable) {
			add(FieldVariable, "Variable name is required")
		}
	case domain.SetVariablePayload:
		if blank(p.VariableName) {
			add(FieldVariableName, "Variable name is required")
		}
		if blank(p.Value) {
			add(FieldValue, "Variable value is required")
		}
	case domain.ConditionPayload:
		if blank(p.Condition) {
			add(FieldCondition, "Condition expression is required")
		}
	case domain.APIPayload:
		if blank(p.Endpoint) {
			add(FieldAPIEndpoint, "API endpoint is required")
		}
		switch {
		case blank(string(p.Method)):
			add(FieldMethod, "HTTP method is required")
		case !p.Method.Valid():
			add(FieldMethod, "HTTP method must be one of GET, POST, PUT, DELETE")
		}
	case domain.StartPayload, nil:
		// nothing type-specific
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ForNode returns the errors attached to nodeID, preserving order.
func ForNode(errs []domain.ValidationError, nodeID string) []domain.ValidationError {
	var out []domain.ValidationError
	for _, e := range errs {
		if e.NodeID == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// Global returns the errors that concern the whole flow rather than one node.
func Global(errs []domain.ValidationError) []domain.ValidationError {
	return ForNode(errs, domain.GlobalNodeID)
}

// CountByNode returns the number of errors per node id.
func CountByNode(errs []domain.ValidationError) map[string]int {
	counts := make(map[string]int)
	for _, e := range errs {
		counts[e.NodeID]++
	}
	return counts
}
