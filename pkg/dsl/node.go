package dsl

import "github.com/aretw0/flowcraft/pkg/domain"

type transition struct {
	target string
	label  string
}

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node        domain.Node
	placed      bool
	transitions []transition
	builder     *Builder
}

// Name sets the display name. Without it the node gets the default name of its type.
func (n *NodeBuilder) Name(name string) *NodeBuilder {
	n.node.Name = name
	return n
}

// At places the node on the canvas.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = domain.Position{X: x, Y: y}
	n.placed = true
	return n
}

// Message marks the node as a message node with the given text.
func (n *NodeBuilder) Message(text string) *NodeBuilder {
	n.node.Payload = domain.MessagePayload{Message: text}
	return n
}

// Question marks the node as a question node. Use SaveTo to name the answer variable.
func (n *NodeBuilder) Question(text string) *NodeBuilder {
	p, _ := n.node.Payload.(domain.QuestionPayload)
	p.Question = text
	n.node.Payload = p
	return n
}

// SaveTo sets the variable a question stores its answer in.
// It turns the node into a question node if it is not one already.
func (n *NodeBuilder) SaveTo(variable string) *NodeBuilder {
	p, _ := n.node.Payload.(domain.QuestionPayload)
	p.Variable = variable
	n.node.Payload = p
	return n
}

// Set marks the node as a set_variable node.
func (n *NodeBuilder) Set(variable, value string) *NodeBuilder {
	n.node.Payload = domain.SetVariablePayload{VariableName: variable, Value: value}
	return n
}

// Condition marks the node as a condition node with the given expression.
func (n *NodeBuilder) Condition(expr string) *NodeBuilder {
	n.node.Payload = domain.ConditionPayload{Condition: expr}
	return n
}

// Call marks the node as an api node.
func (n *NodeBuilder) Call(method domain.HTTPMethod, endpoint string) *NodeBuilder {
	p, _ := n.node.Payload.(domain.APIPayload)
	p.Method = method
	p.Endpoint = endpoint
	n.node.Payload = p
	return n
}

// Header adds a request header to an api node.
func (n *NodeBuilder) Header(key, value string) *NodeBuilder {
	p, _ := n.node.Payload.(domain.APIPayload)
	if p.Headers == nil {
		p.Headers = make(map[string]string)
	}
	p.Headers[key] = value
	n.node.Payload = p
	return n
}

// Body sets the raw request body of an api node.
func (n *NodeBuilder) Body(body string) *NodeBuilder {
	p, _ := n.node.Payload.(domain.APIPayload)
	p.Body = body
	n.node.Payload = p
	return n
}

// Extra attaches a document key outside the node schema.
func (n *NodeBuilder) Extra(key string, value any) *NodeBuilder {
	if n.node.Extra == nil {
		n.node.Extra = make(map[string]any)
	}
	n.node.Extra[key] = value
	return n
}

// Go adds an unlabelled edge to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.transitions = append(n.transitions, transition{target: target})
	return n
}

// Branch adds a labelled edge to the target node, e.g. the "yes" side of a condition.
func (n *NodeBuilder) Branch(label, target string) *NodeBuilder {
	n.transitions = append(n.transitions, transition{target: target, label: label})
	return n
}

// Build returns a copy of the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return n.node.Clone()
}
