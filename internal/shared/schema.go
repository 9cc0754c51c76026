package shared

import (
	"context"
	"fmt"
)

// Column describes one column of a table as reported by the database catalog.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

// Table describes one user table and its columns in declaration order.
type Table struct {
	Name    string
	Columns []Column
}

// InspectSchema lists the user tables of the store with their columns, ordered by table name.
func InspectSchema(ctx context.Context, s *Store) ([]Table, error) {
	var tablesQuery, columnsQuery string
	switch s.Dialect {
	case DialectPostgres:
		tablesQuery = `
			SELECT table_name FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
		columnsQuery = `
			SELECT c.column_name, c.data_type, c.is_nullable = 'NO',
				EXISTS (
					SELECT 1 FROM information_schema.table_constraints tc
					JOIN information_schema.key_column_usage k
						ON tc.constraint_name = k.constraint_name AND tc.table_schema = k.table_schema
					WHERE tc.constraint_type = 'PRIMARY KEY'
						AND tc.table_schema = c.table_schema
						AND tc.table_name = c.table_name
						AND k.column_name = c.column_name
				)
			FROM information_schema.columns c
			WHERE c.table_schema = current_schema() AND c.table_name = $1
			ORDER BY c.ordinal_position
		`
	default:
		tablesQuery = `
			SELECT name FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`
		columnsQuery = `SELECT name, type, "notnull" = 1, pk > 0 FROM pragma_table_info(?) ORDER BY cid`
	}

	rows, err := s.DB.QueryContext(ctx, tablesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list tables: %w", ErrPersistence, err)
	}

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: failed to scan table name: %w", ErrPersistence, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: row iteration error: %w", ErrPersistence, err)
	}
	rows.Close()

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		columns, err := inspectColumns(ctx, s, columnsQuery, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, Table{Name: name, Columns: columns})
	}

	return tables, nil
}

func inspectColumns(ctx context.Context, s *Store, query, table string) ([]Column, error) {
	rows, err := s.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to describe %s: %w", ErrPersistence, table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type, &c.NotNull, &c.PrimaryKey); err != nil {
			return nil, fmt.Errorf("%w: failed to scan column: %w", ErrPersistence, err)
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
