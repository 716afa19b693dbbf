package algorithms

import (
	"strings"

	"github.com/dd0wney/cluso-ormlens/pkg/graph"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// testGraph builds a graph from "A->B" edge specs. A spec without an arrow
// adds an isolated vertex. Vertices appear in first-mention order.
func testGraph(specs ...string) *graph.Graph {
	var order []string
	nodes := make(map[string]*model.EntityNode)
	vertex := func(name string) *model.EntityNode {
		if n, ok := nodes[name]; ok {
			return n
		}
		n := &model.EntityNode{Name: name, Kind: model.KindEntity}
		nodes[name] = n
		order = append(order, name)
		return n
	}

	for _, spec := range specs {
		from, to, isEdge := strings.Cut(spec, "->")
		src := vertex(from)
		if !isEdge {
			continue
		}
		vertex(to)
		src.Relationships = append(src.Relationships, model.Relationship{
			Attribute: strings.ToLower(to),
			Target:    to,
			Mapping:   model.MappingManyToOne,
		})
	}

	list := make([]model.EntityNode, 0, len(order))
	for _, name := range order {
		list = append(list, *nodes[name])
	}
	return graph.Build(list)
}
