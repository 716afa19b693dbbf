package schema

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
)

// DefaultPostgresSchema is inspected when no schema name is given
const DefaultPostgresSchema = "public"

const pgColumnsQuery = `
SELECT c.table_name, c.column_name
FROM information_schema.columns c
JOIN information_schema.tables t
  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
WHERE t.table_type = 'BASE TABLE' AND c.table_schema = $1
ORDER BY c.table_name, c.ordinal_position`

const pgForeignKeysQuery = `
SELECT tc.table_name, tc.constraint_name, kcu.column_name, ccu.table_name, rc.delete_rule
FROM information_schema.table_constraints tc
JOIN information_schema.key_column_usage kcu
  ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
JOIN information_schema.referential_constraints rc
  ON rc.constraint_name = tc.constraint_name AND rc.constraint_schema = tc.table_schema
JOIN information_schema.constraint_column_usage ccu
  ON ccu.constraint_name = tc.constraint_name AND ccu.constraint_schema = tc.table_schema
WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
ORDER BY tc.table_name, tc.constraint_name, kcu.ordinal_position`

// PostgresInspector reads tables and foreign keys from information_schema
type PostgresInspector struct {
	pool   *pgxpool.Pool
	schema string
	logger logging.Logger
}

// NewPostgresInspector connects to databaseURL and verifies the connection
func NewPostgresInspector(ctx context.Context, databaseURL, schemaName string, logger logging.Logger) (*PostgresInspector, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Inspection is a handful of catalog queries
	config.MaxConns = 2
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	if schemaName == "" {
		schemaName = DefaultPostgresSchema
	}
	return &PostgresInspector{
		pool:   pool,
		schema: schemaName,
		logger: logging.OrNop(logger).With(logging.Component("schema"), logging.String("driver", DriverPostgres)),
	}, nil
}

// Driver returns "postgres"
func (p *PostgresInspector) Driver() string { return DriverPostgres }

// Tables lists the base tables of the configured schema
func (p *PostgresInspector) Tables(ctx context.Context) ([]Table, error) {
	rows, err := p.pool.Query(ctx, pgColumnsQuery, p.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}

	var tables []Table
	index := make(map[string]int)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		i, ok := index[table]
		if !ok {
			tables = append(tables, Table{Schema: p.schema, Name: table})
			i = len(tables) - 1
			index[table] = i
		}
		tables[i].Columns = append(tables[i].Columns, column)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	fkRows, err := p.pool.Query(ctx, pgForeignKeysQuery, p.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer fkRows.Close()

	var fks []fkRow
	for fkRows.Next() {
		var r fkRow
		if err := fkRows.Scan(&r.table, &r.constraint, &r.column, &r.refTable, &r.onDelete); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key: %w", err)
		}
		fks = append(fks, r)
	}
	if err := fkRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read foreign keys: %w", err)
	}

	grouped := groupForeignKeys(fks)
	for i := range tables {
		tables[i].ForeignKeys = grouped[tables[i].Name]
	}

	p.logger.Debug("catalog read", logging.String("schema", p.schema), logging.Count(len(tables)))
	return tables, nil
}

// Close closes the connection pool
func (p *PostgresInspector) Close() error {
	p.pool.Close()
	return nil
}
