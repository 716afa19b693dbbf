package schema

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
	"github.com/dd0wney/cluso-ormlens/pkg/metrics"
	"github.com/dd0wney/cluso-ormlens/pkg/model"
)

func TestBuildNodes(t *testing.T) {
	tables := []Table{
		{
			Schema:  "shop",
			Name:    "order_line",
			Columns: []string{"id", "order_id", "qty"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"order_id"}, RefTable: "orders", OnDelete: "CASCADE"},
			},
		},
		{
			Schema:  "shop",
			Name:    "orders",
			Columns: []string{"id", "customer_id"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"customer_id"}, RefTable: "customer", OnDelete: "NO ACTION"},
				{Columns: nil, RefTable: "broken"},
			},
		},
		{Schema: "shop", Name: "customer", Columns: []string{"id", "name"}},
	}

	nodes := BuildNodes(tables)
	require.Len(t, nodes, 3)

	names := []string{nodes[0].Name, nodes[1].Name, nodes[2].Name}
	assert.Equal(t, []string{"customer", "order_line", "orders"}, names)

	line := nodes[1]
	assert.Equal(t, "shop", line.Package)
	assert.Equal(t, model.KindEntity, line.Kind)
	assert.Equal(t, 3, line.AttributeCount)
	require.Len(t, line.Relationships, 1)
	assert.Equal(t, model.Relationship{
		Attribute:     "order_id",
		Target:        "orders",
		Mapping:       model.MappingManyToOne,
		OwningSide:    true,
		CascadeRemove: true,
	}, line.Relationships[0])

	orders := nodes[2]
	require.Len(t, orders.Relationships, 1, "foreign key without columns is skipped")
	assert.False(t, orders.Relationships[0].CascadeRemove)
	assert.True(t, orders.Relationships[0].Eager())

	assert.Empty(t, nodes[0].Relationships)
	assert.Empty(t, BuildNodes(nil))
}

func TestGroupForeignKeys(t *testing.T) {
	rows := []fkRow{
		{table: "shipment", constraint: "fk_dest", column: "country", refTable: "address", onDelete: "CASCADE"},
		{table: "shipment", constraint: "fk_dest", column: "zip", refTable: "address", onDelete: "CASCADE"},
		{table: "shipment", constraint: "fk_dest", column: "zip", refTable: "address", onDelete: "CASCADE"},
		{table: "shipment", constraint: "fk_carrier", column: "carrier_id", refTable: "carrier"},
		{table: "carrier", constraint: "fk_parent", column: "parent_id", refTable: "carrier"},
	}

	got := groupForeignKeys(rows)
	want := map[string][]ForeignKey{
		"shipment": {
			{Name: "fk_dest", Columns: []string{"country", "zip"}, RefTable: "address", OnDelete: "CASCADE"},
			{Name: "fk_carrier", Columns: []string{"carrier_id"}, RefTable: "carrier"},
		},
		"carrier": {
			{Name: "fk_parent", Columns: []string{"parent_id"}, RefTable: "carrier"},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("groupForeignKeys() = %+v, want %+v", got, want)
	}

	nodes := BuildNodes([]Table{{Name: "shipment", ForeignKeys: got["shipment"]}})
	if nodes[0].Relationships[0].Attribute != "country_zip" {
		t.Errorf("Expected composite attribute country_zip, got %s", nodes[0].Relationships[0].Attribute)
	}
}

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE customer (id INTEGER PRIMARY KEY, name TEXT)`,
		`CREATE TABLE orders (
			id INTEGER PRIMARY KEY,
			customer_id INTEGER REFERENCES customer(id),
			placed_at TEXT
		)`,
		`CREATE TABLE order_line (
			id INTEGER PRIMARY KEY,
			order_id INTEGER REFERENCES orders(id) ON DELETE CASCADE,
			sku TEXT,
			qty INTEGER
		)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestSQLiteInspector(t *testing.T) {
	insp := NewSQLiteInspectorFromDB(newSQLiteDB(t), logging.NewNopLogger())
	defer insp.Close()

	tables, err := insp.Tables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 3)

	assert.Equal(t, "customer", tables[0].Name)
	assert.Equal(t, SQLiteSchema, tables[0].Schema)
	assert.Equal(t, []string{"id", "name"}, tables[0].Columns)
	assert.Empty(t, tables[0].ForeignKeys)

	line := tables[1]
	assert.Equal(t, "order_line", line.Name)
	assert.Equal(t, []string{"id", "order_id", "sku", "qty"}, line.Columns)
	require.Len(t, line.ForeignKeys, 1)
	assert.Equal(t, []string{"order_id"}, line.ForeignKeys[0].Columns)
	assert.Equal(t, "orders", line.ForeignKeys[0].RefTable)
	assert.True(t, line.ForeignKeys[0].Cascades())

	orders := tables[2]
	require.Len(t, orders.ForeignKeys, 1)
	assert.Equal(t, "customer", orders.ForeignKeys[0].RefTable)
	assert.False(t, orders.ForeignKeys[0].Cascades())
}

func TestInspect_RecordsMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	insp := NewSQLiteInspectorFromDB(newSQLiteDB(t), nil)
	defer insp.Close()

	nodes, err := Inspect(context.Background(), insp, nil, reg)
	require.NoError(t, err)
	require.Len(t, nodes, 3)
	assert.Equal(t, "order_line", nodes[1].Name)
	assert.Equal(t, "orders", nodes[1].Relationships[0].Target)

	var m dto.Metric
	require.NoError(t, reg.SchemaInspectsTotal.WithLabelValues(DriverSQLite, metrics.StatusSuccess).Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

type failingInspector struct{}

func (failingInspector) Driver() string { return "fake" }
func (failingInspector) Tables(context.Context) ([]Table, error) {
	return nil, errors.New("catalog locked")
}
func (failingInspector) Close() error { return nil }

func TestInspect_Error(t *testing.T) {
	reg := metrics.NewRegistry()

	_, err := Inspect(context.Background(), failingInspector{}, nil, reg)
	assert.ErrorContains(t, err, "catalog locked")

	var m dto.Metric
	require.NoError(t, reg.SchemaInspectsTotal.WithLabelValues("fake", metrics.StatusError).Write(&m))
	assert.Equal(t, 1.0, m.GetCounter().GetValue())
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "oracle", "", "", nil)
	assert.ErrorIs(t, err, ErrUnsupportedDriver)

	_, err = Open(ctx, DriverPostgres, "postgres://user@localhost:notaport/db", "", nil)
	assert.ErrorContains(t, err, "failed to parse database URL")

	insp, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "empty.db"), "", nil)
	require.NoError(t, err)
	defer insp.Close()

	tables, err := insp.Tables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}
