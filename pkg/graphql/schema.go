// Package graphql serves a read-only GraphQL API over cached analysis
// reports.
package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-ormlens/pkg/analysis"
	"github.com/dd0wney/cluso-ormlens/pkg/ddd"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// ReportSource is where the schema reads reports from
type ReportSource interface {
	Get(id string) (*analysis.Report, error)
	List() []*analysis.Report
}

// GenerateSchema builds the query schema over src:
//
//	report(id: ID!): Report
//	reports(limit: Int): [Report!]!
func GenerateSchema(src ReportSource, limits LimitConfig) (graphql.Schema, error) {
	if err := ValidateLimitConfig(&limits); err != nil {
		return graphql.Schema{}, err
	}

	reportType := createReportType()

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"report": &graphql.Field{
				Type: reportType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					return src.Get(id)
				},
			},
			"reports": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(reportType))),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: -1},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					limit, _ := p.Args["limit"].(int)
					reports := src.List()
					if n := applyLimit(limit, &limits); n < len(reports) {
						reports = reports[:n]
					}
					return reports, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func createReportType() *graphql.Object {
	entityType := createEntityType()
	findingType := createFindingType()
	aggregateType := createAggregateType()
	cutType := createCutType()

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Report",
		Fields: graphql.Fields{
			"id":         reportField(graphql.NewNonNull(graphql.ID), func(r *analysis.Report) any { return r.ID }),
			"createdAt":  reportField(graphql.String, func(r *analysis.Report) any { return r.CreatedAt.Format(time.RFC3339Nano) }),
			"classifier": reportField(graphql.String, func(r *analysis.Report) any { return r.Classifier }),
			"truncated":  reportField(graphql.Boolean, func(r *analysis.Report) any { return r.Truncated }),
			"truncatedStages": reportField(graphql.NewList(graphql.String), func(r *analysis.Report) any {
				return r.TruncatedStages
			}),
			"durationMs": reportField(graphql.Float, func(r *analysis.Report) any {
				return float64(r.Duration) / float64(time.Millisecond)
			}),
			"entityCount": reportField(graphql.Int, func(r *analysis.Report) any { return len(r.Entities) }),
			"acyclic":     reportField(graphql.Boolean, func(r *analysis.Report) any { return r.Summary.Acyclic }),
			"flushOrder":  reportField(graphql.NewList(graphql.String), func(r *analysis.Report) any { return r.Summary.FlushOrder }),
			"entities": {
				Type: graphql.NewList(entityType),
				Args: graphql.FieldConfigArgument{
					"role": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, ok := p.Source.(*analysis.Report)
					if !ok {
						return nil, nil
					}
					role, _ := p.Args["role"].(string)
					return r.EntitiesByRole(model.Role(role)), nil
				},
			},
			"findings": {
				Type: graphql.NewList(findingType),
				Args: graphql.FieldConfigArgument{
					"severity": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					r, ok := p.Source.(*analysis.Report)
					if !ok {
						return nil, nil
					}
					sev, _ := p.Args["severity"].(string)
					return r.FindingsBySeverity(model.Severity(sev)), nil
				},
			},
			"aggregates": reportField(graphql.NewList(aggregateType), func(r *analysis.Report) any { return r.Aggregates }),
			"cuts":       reportField(graphql.NewList(cutType), func(r *analysis.Report) any { return r.Cuts }),
		},
	})
}

func reportField(t graphql.Output, get func(*analysis.Report) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if r, ok := p.Source.(*analysis.Report); ok {
				return get(r), nil
			}
			return nil, nil
		},
	}
}

func createEntityType() *graphql.Object {
	relType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Relationship",
		Fields: graphql.Fields{
			"attributeName": relField(graphql.String, func(r *model.Relationship) any { return r.Attribute }),
			"targetEntity":  relField(graphql.String, func(r *model.Relationship) any { return r.Target }),
			"mappingType":   relField(graphql.String, func(r *model.Relationship) any { return string(r.Mapping) }),
			"owningSide":    relField(graphql.Boolean, func(r *model.Relationship) any { return r.OwningSide }),
			"lazy":          relField(graphql.Boolean, func(r *model.Relationship) any { return r.Lazy }),
			"cascades":      relField(graphql.NewList(graphql.String), func(r *model.Relationship) any { return cascades(r) }),
			"weight":        relField(graphql.Float, func(r *model.Relationship) any { return ddd.EdgeWeight(r).Value }),
		},
	})

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Entity",
		Fields: graphql.Fields{
			"name":           entityField(graphql.NewNonNull(graphql.String), func(e *model.EntityNode) any { return e.Name }),
			"packageName":    entityField(graphql.String, func(e *model.EntityNode) any { return e.Package }),
			"type":           entityField(graphql.String, func(e *model.EntityNode) any { return string(e.DeclaredKind()) }),
			"role":           entityField(graphql.String, func(e *model.EntityNode) any { return string(e.Role) }),
			"aggregate":      entityField(graphql.String, func(e *model.EntityNode) any { return e.Aggregate }),
			"attributeCount": entityField(graphql.Int, func(e *model.EntityNode) any { return e.Attrs() }),
			"relationships":  entityField(graphql.NewList(relType), func(e *model.EntityNode) any { return e.Relationships }),
		},
	})
}

func entityField(t graphql.Output, get func(*model.EntityNode) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if e, ok := p.Source.(model.EntityNode); ok {
				return get(&e), nil
			}
			return nil, nil
		},
	}
}

func relField(t graphql.Output, get func(*model.Relationship) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (any, error) {
			if r, ok := p.Source.(model.Relationship); ok {
				return get(&r), nil
			}
			return nil, nil
		},
	}
}

func cascades(r *model.Relationship) []string {
	if r.CascadeAll {
		return []string{"ALL"}
	}
	out := make([]string, 0, 5)
	for _, c := range []struct {
		set  bool
		name string
	}{
		{r.CascadePersist, "PERSIST"},
		{r.CascadeMerge, "MERGE"},
		{r.CascadeRemove, "REMOVE"},
		{r.CascadeRefresh, "REFRESH"},
		{r.CascadeDetach, "DETACH"},
	} {
		if c.set {
			out = append(out, c.name)
		}
	}
	return out
}

func createFindingType() *graphql.Object {
	field := func(t graphql.Output, get func(*model.Finding) any) *graphql.Field {
		return &graphql.Field{
			Type: t,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if f, ok := p.Source.(model.Finding); ok {
					return get(&f), nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Finding",
		Fields: graphql.Fields{
			"ruleId":   field(graphql.String, func(f *model.Finding) any { return f.RuleID }),
			"check":    field(graphql.String, func(f *model.Finding) any { return f.Check }),
			"severity": field(graphql.String, func(f *model.Finding) any { return string(f.Severity) }),
			"message":  field(graphql.String, func(f *model.Finding) any { return f.Message }),
			"entity":   field(graphql.String, func(f *model.Finding) any { return f.Entity }),
		},
	})
}

func createAggregateType() *graphql.Object {
	field := func(t graphql.Output, get func(*ddd.Aggregate) any) *graphql.Field {
		return &graphql.Field{
			Type: t,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if a, ok := p.Source.(ddd.Aggregate); ok {
					return get(&a), nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Aggregate",
		Fields: graphql.Fields{
			"name":    field(graphql.String, func(a *ddd.Aggregate) any { return a.Name }),
			"root":    field(graphql.String, func(a *ddd.Aggregate) any { return a.Root }),
			"members": field(graphql.NewList(graphql.String), func(a *ddd.Aggregate) any { return a.Members }),
		},
	})
}

func createCutType() *graphql.Object {
	field := func(t graphql.Output, get func(*ddd.Cut) any) *graphql.Field {
		return &graphql.Field{
			Type: t,
			Resolve: func(p graphql.ResolveParams) (any, error) {
				if c, ok := p.Source.(ddd.Cut); ok {
					return get(&c), nil
				}
				return nil, nil
			},
		}
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Cut",
		Fields: graphql.Fields{
			"source":    field(graphql.String, func(c *ddd.Cut) any { return c.Source }),
			"target":    field(graphql.String, func(c *ddd.Cut) any { return c.Target }),
			"attribute": field(graphql.String, func(c *ddd.Cut) any { return c.Attribute }),
			"reason":    field(graphql.String, func(c *ddd.Cut) any { return c.Reason }),
			"action":    field(graphql.String, func(c *ddd.Cut) any { return c.Action }),
			"weight":    field(graphql.Float, func(c *ddd.Cut) any { return c.Weight }),
		},
	})
}
