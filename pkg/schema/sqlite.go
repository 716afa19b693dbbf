package schema

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dd0wney/cluso-ormlens/pkg/logging"
)

// SQLiteSchema is the package name given to SQLite tables
const SQLiteSchema = "main"

// SQLiteInspector reads tables and foreign keys through SQLite pragmas
type SQLiteInspector struct {
	db     *sql.DB
	logger logging.Logger
}

// NewSQLiteInspector opens the database file at path
func NewSQLiteInspector(path string, logger logging.Logger) (*SQLiteInspector, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewSQLiteInspectorFromDB(db, logger), nil
}

// NewSQLiteInspectorFromDB wraps an open handle; Close closes it.
func NewSQLiteInspectorFromDB(db *sql.DB, logger logging.Logger) *SQLiteInspector {
	return &SQLiteInspector{
		db:     db,
		logger: logging.OrNop(logger).With(logging.Component("schema"), logging.String("driver", DriverSQLite)),
	}
}

// Driver returns "sqlite"
func (s *SQLiteInspector) Driver() string { return DriverSQLite }

// Tables lists user tables with their columns and foreign keys
func (s *SQLiteInspector) Tables(ctx context.Context) ([]Table, error) {
	names, err := s.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		columns, err := s.columns(ctx, name)
		if err != nil {
			return nil, err
		}
		fks, err := s.foreignKeys(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, Table{
			Schema:      SQLiteSchema,
			Name:        name,
			Columns:     columns,
			ForeignKeys: groupForeignKeys(fks)[name],
		})
	}

	s.logger.Debug("catalog read", logging.Count(len(tables)))
	return tables, nil
}

func (s *SQLiteInspector) tableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *SQLiteInspector) columns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

func (s *SQLiteInspector) foreignKeys(ctx context.Context, table string) ([]fkRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, "table", "from", on_delete FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var fks []fkRow
	for rows.Next() {
		var id int
		r := fkRow{table: table}
		if err := rows.Scan(&id, &r.refTable, &r.column, &r.onDelete); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key of %s: %w", table, err)
		}
		r.constraint = fmt.Sprintf("fk_%s_%d", table, id)
		fks = append(fks, r)
	}
	return fks, rows.Err()
}

// Close closes the database handle
func (s *SQLiteInspector) Close() error {
	return s.db.Close()
}
