package loam

// FlowMetadata is the typed view of a flow document stored in a Loam repository.
// For JSON and YAML files it is the whole document; for Markdown files it is the
// frontmatter, and the body becomes the flow description.
type FlowMetadata struct {
	Title string `json:"title" mapstructure:"title"`
	Nodes []any  `json:"nodes" mapstructure:"nodes"`
	Edges []any  `json:"edges" mapstructure:"edges"`
}
