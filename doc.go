/*
Package flowcraft is the core of a visual chatbot flow editor.

A flow is a directed graph of typed nodes (message, question, set_variable,
condition, api) that starts at a single start node. The Editor keeps that graph in
memory, applies the edits a canvas produces, re-validates the flow after every
structural change and converts it to and from the canonical JSON or YAML document.

# Layers

  - pkg/domain: nodes, edges, the document codec and the sentinel errors.
  - pkg/store: the graph store and its change notifications.
  - pkg/validator: the required-field and connectivity rules.
  - pkg/serializer: the document boundary (JSON, YAML, files).
  - pkg/adapters: document stores (memory, file, redis), the loam flow library,
    the HTTP editor API and the MCP server.

Validation errors are data. They never block an edit, an export or a save.

# Usage

	ed := flowcraft.New()

	ask, _ := ed.AddNode(domain.NodeTypeQuestion)
	ed.Connect(domain.Connection{Source: domain.StartNodeID, Target: ask.ID})
	ed.UpdateNode(ask.ID, map[string]any{"question": "Your name?", "variable": "name"})

	for _, e := range ed.Errors() {
		fmt.Println(e)
	}

	data, _ := ed.ExportBytes(serializer.FormatJSON)
*/
package flowcraft
