package visualization

import (
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// NodeViz is one positioned entity
type NodeViz struct {
	Name      string     `json:"name"`
	Role      model.Role `json:"role,omitempty"`
	Aggregate string     `json:"aggregate,omitempty"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
}

// EdgeViz is one relationship with its coupling weight
type EdgeViz struct {
	From      string  `json:"from"`
	To        string  `json:"to"`
	Attribute string  `json:"attribute"`
	Weight    float64 `json:"weight"`
}

// Visualization is a drawable rendition of an annotated entity model
type Visualization struct {
	Layout string    `json:"layout"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Nodes  []NodeViz `json:"nodes"`
	Edges  []EdgeViz `json:"edges"`
}

// Render lays out the entities with the named layout. Roles and aggregate
// names are taken from the entities as given, so pass annotated nodes to get
// them in the output.
func Render(layoutName string, config LayoutConfig, entities []model.EntityNode) (*Visualization, error) {
	layout, err := New(layoutName, config)
	if err != nil {
		return nil, err
	}
	c := config.withDefaults()

	g := graph.Build(entities)
	positions := layout.ComputeLayout(g)

	viz := &Visualization{
		Layout: layout.Name(),
		Width:  c.Width,
		Height: c.Height,
		Nodes:  make([]NodeViz, 0, g.VertexCount()),
		Edges:  make([]EdgeViz, 0, g.EdgeCount()),
	}

	for _, name := range g.Vertices() {
		node, _ := g.Node(name)
		pos := positions[name]
		viz.Nodes = append(viz.Nodes, NodeViz{
			Name:      name,
			Role:      node.Role,
			Aggregate: node.Aggregate,
			X:         pos.X,
			Y:         pos.Y,
		})
	}

	for _, e := range g.Edges() {
		viz.Edges = append(viz.Edges, EdgeViz{
			From:      e.From,
			To:        e.To,
			Attribute: e.Relationship.Attribute,
			Weight:    ddd.EdgeWeight(&e.Relationship).Value,
		})
	}

	return viz, nil
}
