package ddd

import (
	"fmt"
	"math/rand"

	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

func rel(target string) model.Relationship {
	return model.Relationship{Attribute: "ref" + target, Target: target, Mapping: model.MappingManyToOne, Lazy: true}
}

func cascadePersist(target string) model.Relationship {
	r := rel(target)
	r.CascadePersist = true
	return r
}

func cascadeRemove(target string) model.Relationship {
	r := rel(target)
	r.CascadeRemove = true
	return r
}

func eager(target string) model.Relationship {
	r := rel(target)
	r.Lazy = false
	return r
}

func node(name, pkg string, rels ...model.Relationship) model.EntityNode {
	return model.EntityNode{Name: name, Package: pkg, Kind: model.KindEntity, Relationships: rels}
}

// randomModel builds a reproducible random entity model from seed.
func randomModel(seed int64) []model.EntityNode {
	rng := rand.New(rand.NewSource(seed))
	n := 1 + rng.Intn(15)

	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("E%d", i)
	}

	packages := []string{"", "com.shop.order", "com.shop.customer", "billing"}
	mappings := []model.MappingKind{
		model.MappingOneToOne, model.MappingOneToMany, model.MappingManyToOne,
		model.MappingManyToMany, model.MappingEmbedded,
	}

	nodes := make([]model.EntityNode, n)
	for i, name := range names {
		nodes[i] = model.EntityNode{
			Name:           name,
			Package:        packages[rng.Intn(len(packages))],
			Kind:           model.Kinds[rng.Intn(len(model.Kinds))],
			AttributeCount: rng.Intn(8),
		}
		for j := rng.Intn(6); j > 0; j-- {
			target := names[rng.Intn(n)]
			if rng.Intn(10) == 0 {
				target = "External" // dangling
			}
			nodes[i].Relationships = append(nodes[i].Relationships, model.Relationship{
				Attribute:      fmt.Sprintf("a%d", j),
				Target:         target,
				Mapping:        mappings[rng.Intn(len(mappings))],
				OwningSide:     rng.Intn(2) == 0,
				Lazy:           rng.Intn(2) == 0,
				CascadePersist: rng.Intn(3) == 0,
				CascadeRemove:  rng.Intn(4) == 0,
				CascadeAll:     rng.Intn(8) == 0,
			})
		}
	}
	return nodes
}
