package validator_test

import (
	"testing"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, name string, p domain.Payload) domain.Node {
	return domain.Node{ID: id, Name: name, Payload: p}
}

func edge(id, src, dst string) domain.Edge {
	return domain.Edge{ID: id, Source: src, Target: dst}
}

func TestValidate_Scenarios(t *testing.T) {
	start := domain.NewStartNode()

	tests := []struct {
		name  string
		nodes []domain.Node
		edges []domain.Edge
		want  []domain.ValidationError
	}{
		{
			name:  "Fresh Flow Is Valid",
			nodes: []domain.Node{start},
			want:  nil,
		},
		{
			name: "Start To Message Is Valid",
			nodes: []domain.Node{
				start,
				node("a", "Greet", domain.MessagePayload{Message: "Hi"}),
			},
			edges: []domain.Edge{edge("e1", domain.StartNodeID, "a")},
			want:  nil,
		},
		{
			name: "Empty Message Text",
			nodes: []domain.Node{
				start,
				node("a", "Greet", domain.MessagePayload{Message: "   "}),
			},
			edges: []domain.Edge{edge("e1", domain.StartNodeID, "a")},
			want: []domain.ValidationError{
				{NodeID: "a", Field: "message", Message: "Message text is required"},
			},
		},
		{
			name: "Disconnected Empty Set Variable",
			nodes: []domain.Node{
				start,
				node("a", "Greet", domain.MessagePayload{Message: "Hi"}),
				node("c", "Set_variable Node", domain.SetVariablePayload{}),
			},
			edges: []domain.Edge{edge("e1", domain.StartNodeID, "a")},
			want: []domain.ValidationError{
				{NodeID: "c", Field: "connection", Message: `Node "Set_variable Node" is not connected to any other node`},
				{NodeID: "c", Field: "variableName", Message: "Variable name is required"},
				{NodeID: "c", Field: "value", Message: "Variable value is required"},
			},
		},
		{
			name: "No Start Node",
			nodes: []domain.Node{
				node("a", "Greet", domain.MessagePayload{Message: "Hi"}),
			},
			want: []domain.ValidationError{
				{NodeID: "global", Field: "start", Message: "Flow must have at least one start node"},
				{NodeID: "a", Field: "connection", Message: `Node "Greet" is not connected to any other node`},
			},
		},
		{
			name: "Blank Name And Question Fields",
			nodes: []domain.Node{
				start,
				node("q", " ", domain.QuestionPayload{}),
			},
			edges: []domain.Edge{edge("e1", "q", "q")},
			want: []domain.ValidationError{
				{NodeID: "q", Field: "name", Message: "Node name is required"},
				{NodeID: "q", Field: "question", Message: "Question text is required"},
				{NodeID: "q", Field: "variable", Message: "Variable name is required"},
			},
		},
		{
			name: "Condition And API",
			nodes: []domain.Node{
				start,
				node("c", "Check", domain.ConditionPayload{}),
				node("x", "Call", domain.APIPayload{}),
				node("y", "Call 2", domain.APIPayload{Endpoint: "/users", Method: "PATCH"}),
				node("z", "Call 3", domain.APIPayload{Endpoint: "/users", Method: "  "}),
			},
			edges: []domain.Edge{edge("e1", "c", "x"), edge("e2", "x", "y"), edge("e3", "y", "z")},
			want: []domain.ValidationError{
				{NodeID: "c", Field: "condition", Message: "Condition expression is required"},
				{NodeID: "x", Field: "apiEndpoint", Message: "API endpoint is required"},
				{NodeID: "x", Field: "method", Message: "HTTP method is required"},
				{NodeID: "y", Field: "method", Message: "HTTP method must be one of GET, POST, PUT, DELETE"},
				{NodeID: "z", Field: "method", Message: "HTTP method is required"},
			},
		},
		{
			name: "Dangling Edge Still Counts As Connection",
			nodes: []domain.Node{
				start,
				node("a", "Greet", domain.MessagePayload{Message: "Hi"}),
			},
			edges: []domain.Edge{edge("e1", "a", "ghost")},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validator.Validate(tt.nodes, tt.edges)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_StartNodeNeedsName(t *testing.T) {
	start := domain.NewStartNode()
	start.Name = ""

	got := validator.Validate([]domain.Node{start}, nil)
	require.Len(t, got, 1)
	assert.Equal(t, domain.StartNodeID, got[0].NodeID)
	assert.Equal(t, validator.FieldName, got[0].Field)
}

func TestValidate_Deterministic(t *testing.T) {
	nodes := []domain.Node{
		node("a", "", domain.APIPayload{}),
		node("b", "", domain.QuestionPayload{}),
		node("c", "", domain.SetVariablePayload{}),
	}
	first := validator.Validate(nodes, nil)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, validator.Validate(nodes, nil))
	}
}

func TestValidate_GlobalErrorIffNoStart(t *testing.T) {
	withStart := validator.ValidateFlow(domain.NewFlowData())
	assert.Empty(t, validator.Global(withStart))

	withoutStart := validator.ValidateFlow(&domain.FlowData{})
	assert.Len(t, validator.Global(withoutStart), 1)

	assert.Len(t, validator.Global(validator.ValidateFlow(nil)), 1)
}

func TestForNode(t *testing.T) {
	errs := []domain.ValidationError{
		{NodeID: "a", Field: "name"},
		{NodeID: "b", Field: "name"},
		{NodeID: "a", Field: "message"},
	}
	got := validator.ForNode(errs, "a")
	require.Len(t, got, 2)
	assert.Equal(t, "name", got[0].Field)
	assert.Equal(t, "message", got[1].Field)

	assert.Empty(t, validator.ForNode(errs, "z"))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, validator.CountByNode(errs))
}
