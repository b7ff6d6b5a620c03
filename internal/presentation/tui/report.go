package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/flowcraft/pkg/domain"
	"github.com/aretw0/flowcraft/pkg/validator"
	"github.com/muesli/termenv"
)

// ValidationReport formats the validation result of a flow as Markdown.
func ValidationReport(title string, doc *domain.FlowData, errs []domain.ValidationError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	nodes, edges := 0, 0
	if doc != nil {
		nodes, edges = len(doc.Nodes), len(doc.Edges)
	}
	fmt.Fprintf(&sb, "%d nodes, %d edges.\n\n", nodes, edges)

	if len(errs) == 0 {
		sb.WriteString("**Valid.** No problems found.\n")
		return sb.String()
	}
	counts := validator.CountByNode(errs)
	delete(counts, domain.GlobalNodeID)
	fmt.Fprintf(&sb, "**%d problem(s) found in %d node(s).**\n\n", len(errs), len(counts))

	if global := validator.Global(errs); len(global) > 0 {
		sb.WriteString("## Flow\n\n")
		for _, e := range global {
			fmt.Fprintf(&sb, "- %s\n", e.Message)
		}
		sb.WriteString("\n")
	}

	// group by node, in document order
	grouped := make(map[string][]domain.ValidationError)
	var order []string
	for _, e := range errs {
		if e.NodeID == domain.GlobalNodeID {
			continue
		}
		if _, ok := grouped[e.NodeID]; !ok {
			order = append(order, e.NodeID)
		}
		grouped[e.NodeID] = append(grouped[e.NodeID], e)
	}
	for _, id := range order {
		heading := "`" + id + "`"
		if doc != nil {
			if n, ok := doc.Node(id); ok && strings.TrimSpace(n.Name) != "" {
				heading = fmt.Sprintf("%s (`%s`, %s)", n.Name, id, n.Type())
			}
		}
		fmt.Fprintf(&sb, "## %s\n\n", heading)
		for _, e := range grouped[id] {
			fmt.Fprintf(&sb, "- **%s**: %s\n", e.Field, e.Message)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Render writes markdown to w, through glamour when rich is set.
func Render(w io.Writer, markdown string, rich bool) error {
	if rich {
		out, err := NewRenderer()(markdown)
		if err == nil {
			markdown = out
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}

// Status writes a one-line colored status message.
func Status(w io.Writer, ok bool, msg string) {
	out := termenv.NewOutput(w)
	mark := out.String("✔").Foreground(out.Color("#22c55e"))
	if !ok {
		mark = out.String("✘").Foreground(out.Color("#ef4444"))
	}
	fmt.Fprintf(w, "%s %s\n", mark, msg)
}
