// Package schema derives entity models from relational database schemas.
//
// Each table becomes an ENTITY node whose package is the schema name, and
// each foreign key becomes an eager, owning-side ManyToOne relationship to
// the referenced table. ON DELETE CASCADE maps to cascade-remove; no other
// cascade can be read from a schema.
package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name
var ErrUnsupportedDriver = errors.New("unsupported schema driver")

// ForeignKey is one foreign key constraint
type ForeignKey struct {
	Name     string   `json:"name,omitempty"`
	Columns  []string `json:"columns"`
	RefTable string   `json:"refTable"`
	OnDelete string   `json:"onDelete,omitempty"`
}

// Cascades reports whether deleting the referenced row deletes this one
func (fk ForeignKey) Cascades() bool {
	return strings.EqualFold(fk.OnDelete, "CASCADE")
}

// Table is one inspected table
type Table struct {
	Schema      string       `json:"schema"`
	Name        string       `json:"name"`
	Columns     []string     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty"`
}

// Inspector reads table definitions from a live database
type Inspector interface {
	Driver() string
	Tables(ctx context.Context) ([]Table, error)
	Close() error
}

// BuildNodes maps tables to entity nodes, sorted by table name. A foreign
// key becomes one relationship named after its columns.
func BuildNodes(tables []Table) []model.EntityNode {
	sorted := append([]Table(nil), tables...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	nodes := make([]model.EntityNode, 0, len(sorted))
	for _, t := range sorted {
		node := model.EntityNode{
			Name:           t.Name,
			Package:        t.Schema,
			Kind:           model.KindEntity,
			AttributeCount: len(t.Columns),
			Attributes:     append([]string(nil), t.Columns...),
		}
		for _, fk := range t.ForeignKeys {
			if len(fk.Columns) == 0 || fk.RefTable == "" {
				continue
			}
			node.Relationships = append(node.Relationships, model.Relationship{
				Attribute:     strings.Join(fk.Columns, "_"),
				Target:        fk.RefTable,
				Mapping:       model.MappingManyToOne,
				OwningSide:    true,
				CascadeRemove: fk.Cascades(),
			})
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Open connects an inspector for the named driver. schemaName selects the
// PostgreSQL schema and is ignored for SQLite.
func Open(ctx context.Context, driver, dsn, schemaName string, logger logging.Logger) (Inspector, error) {
	switch driver {
	case DriverPostgres:
		insp, err := NewPostgresInspector(ctx, dsn, schemaName, logger)
		if err != nil {
			return nil, err
		}
		return insp, nil
	case DriverSQLite:
		insp, err := NewSQLiteInspector(dsn, logger)
		if err != nil {
			return nil, err
		}
		return insp, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Inspect reads the schema through insp and returns the derived nodes.
// reg may be nil.
func Inspect(ctx context.Context, insp Inspector, logger logging.Logger, reg *metrics.Registry) (nodes []model.EntityNode, err error) {
	timer := logging.StartTimer(logging.OrNop(logger), "schema inspected",
		logging.Component("schema"), logging.String("driver", insp.Driver()))
	defer func() {
		if reg != nil {
			reg.RecordSchemaInspection(insp.Driver(), err)
		}
		if err != nil {
			timer.EndError(err)
			return
		}
		timer.End(logging.Count(len(nodes)))
	}()

	tables, err := insp.Tables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect %s schema: %w", insp.Driver(), err)
	}
	return BuildNodes(tables), nil
}

// groupForeignKeys folds per-column rows into constraints, keeping row order
func groupForeignKeys(rows []fkRow) map[string][]ForeignKey {
	out := make(map[string][]ForeignKey)
	index := make(map[string]int)
	for _, r := range rows {
		key := r.table + "\x00" + r.constraint
		i, ok := index[key]
		if !ok {
			out[r.table] = append(out[r.table], ForeignKey{
				Name:     r.constraint,
				RefTable: r.refTable,
				OnDelete: r.onDelete,
			})
			i = len(out[r.table]) - 1
			index[key] = i
		}
		fk := &out[r.table][i]
		if !contains(fk.Columns, r.column) {
			fk.Columns = append(fk.Columns, r.column)
		}
	}
	return out
}

type fkRow struct {
	table      string
	constraint string
	column     string
	refTable   string
	onDelete   string
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
