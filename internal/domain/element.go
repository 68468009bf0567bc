package domain

// Element is one item of the serialized graph: a node when Data.ID is set
// without endpoints, an edge when Data carries Source and Target. The
// envelope mirrors the Cytoscape.js element format the visualization
// layer consumes.
type Element struct {
	Data ElementData `json:"data"`
}

// ElementData holds the union of node and edge attributes. Node elements
// populate ID/Label/Type plus the asset passthrough fields; edge elements
// populate ID/Source/Target/Label plus the optional line hints.
type ElementData struct {
	ID              string         `json:"id,omitempty"`
	Label           string         `json:"label,omitempty"`
	Type            string         `json:"type,omitempty"`
	Color           string         `json:"color,omitempty"`
	Provider        string         `json:"provider,omitempty"`
	Region          string         `json:"region,omitempty"`
	IP              string         `json:"ip,omitempty"`
	Vulnerable      bool           `json:"vulnerable,omitempty"`
	Vulnerabilities []string       `json:"vulnerabilities,omitempty"`
	Ports           []int          `json:"ports,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`

	Source    string `json:"source,omitempty"`
	Target    string `json:"target,omitempty"`
	LineColor string `json:"lineColor,omitempty"`
	LineStyle string `json:"lineStyle,omitempty"`
}

// IsEdge reports whether the element is an edge.
func (e Element) IsEdge() bool {
	return e.Data.Source != "" && e.Data.Target != ""
}

// IsNode reports whether the element is a node.
func (e Element) IsNode() bool {
	return e.Data.ID != "" && !e.IsEdge()
}
