package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowcraft/pkg/domain"
)

// GraphOverlay contains editor state to highlight on the graph.
type GraphOverlay struct {
	InvalidNodes []string
	SelectedNode string
}

// OverlayFromErrors marks every node that has at least one validation error.
func OverlayFromErrors(errs []domain.ValidationError) *GraphOverlay {
	o := &GraphOverlay{}
	seen := make(map[string]bool)
	for _, e := range errs {
		if e.NodeID == domain.GlobalNodeID || seen[e.NodeID] {
			continue
		}
		seen[e.NodeID] = true
		o.InvalidNodes = append(o.InvalidNodes, e.NodeID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the document.
// Shapes follow the node type:
// - Start: ((Circle))
// - Question: [/Parallelogram/]
// - Condition: {Rhombus}
// - API: [[Subroutine]]
// - Default: [Rectangle]
// Edges to nodes that do not exist are drawn dotted.
func GenerateMermaid(doc *domain.FlowData, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if doc == nil {
		return sb.String()
	}

	known := make(map[string]bool, len(doc.Nodes))
	for _, node := range doc.Nodes {
		known[node.ID] = true

		opener, closer := "[", "]"
		switch node.Type() {
		case domain.NodeTypeStart:
			opener, closer = "((", "))"
		case domain.NodeTypeQuestion:
			opener, closer = "[/", "/]"
		case domain.NodeTypeCondition:
			opener, closer = "{", "}"
		case domain.NodeTypeAPI:
			opener, closer = "[[", "]]"
		}
		if node.IsStart {
			opener, closer = "((", "))"
		}

		label := node.Name
		if strings.TrimSpace(label) == "" {
			label = node.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, escapeLabel(label), closer)
	}

	for _, e := range doc.Edges {
		arrow := "-->"
		dangling := !known[e.Source] || !known[e.Target]
		if dangling {
			arrow = "-.->"
		}
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(e.Label))
			if dangling {
				arrow = fmt.Sprintf("-. \"%s\" .->", escapeLabel(e.Label))
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// black text keeps contrast on both light and dark themes
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.InvalidNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s invalid;\n", safeID)
			}
		}
		if overlay.SelectedNode != "" {
			fmt.Fprintf(&sb, "    class %s selected;\n", sanitizeMermaidID(overlay.SelectedNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
	// "end" is a keyword and breaks the flowchart
	if strings.EqualFold(s, "end") {
		s += "_"
	}
	return s
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
