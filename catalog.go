package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// querier is the minimal query surface the catalog reader needs.
// *pgxpool.Pool and *pgx.Conn both satisfy it.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// bookkeepingTables are never regenerated: they belong to the migration
// machinery itself, not the application schema.
var bookkeepingTables = []string{"schema_migrations", "schema_migrations_lock"}

// catalogReader issues read-only queries against the live catalog to
// recover tables, columns, and indexes for one target schema.
type catalogReader struct {
	db       querier
	schema   string
	excluded map[string]bool
}

func newCatalogReader(db querier, schemaName string, exclude []string) *catalogReader {
	excluded := make(map[string]bool, len(bookkeepingTables)+len(exclude))
	for _, t := range bookkeepingTables {
		excluded[t] = true
	}
	for _, t := range exclude {
		excluded[t] = true
	}
	return &catalogReader{db: db, schema: schemaName, excluded: excluded}
}

func (r *catalogReader) listTables(ctx context.Context) ([]TableDescriptor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT table_schema, table_name, table_type
		 FROM information_schema.tables
		 WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		 ORDER BY table_name`,
		r.schema,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []TableDescriptor
	for rows.Next() {
		var t TableDescriptor
		if err := rows.Scan(&t.Schema, &t.Name, &t.Kind); err != nil {
			return nil, err
		}
		if r.excluded[t.Name] {
			continue
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// listColumns merges two catalog views: pg_attribute decides which
// columns exist and whether they are nullable, information_schema.columns
// supplies type, default, length, precision, and ordinal position. Every
// column present in the first view must have a row in the second; a
// missing row means the catalog is in a shape this tool does not support.
func (r *catalogReader) listColumns(ctx context.Context, tableName string) (map[string]*ColumnDescriptor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.attname, a.attnotnull
		 FROM pg_attribute a
		 JOIN pg_class c ON c.oid = a.attrelid
		 JOIN pg_namespace n ON n.oid = c.relnamespace
		 WHERE n.nspname = $1 AND c.relname = $2
		   AND a.attnum > 0 AND NOT a.attisdropped
		 ORDER BY a.attnum`,
		r.schema, tableName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]*ColumnDescriptor)
	var order []string
	for rows.Next() {
		var name string
		var notNull bool
		if err := rows.Scan(&name, &notNull); err != nil {
			return nil, err
		}
		columns[name] = &ColumnDescriptor{Name: name, Nullable: !notNull}
		order = append(order, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	detailed, err := r.db.Query(ctx,
		`SELECT column_name, data_type, column_default,
		        character_maximum_length, numeric_precision, ordinal_position
		 FROM information_schema.columns
		 WHERE table_schema = $1 AND table_name = $2`,
		r.schema, tableName,
	)
	if err != nil {
		return nil, err
	}
	defer detailed.Close()

	seen := make(map[string]bool)
	for detailed.Next() {
		var name, dataType string
		var dflt *string
		var charMaxLen, precision *int64
		var ordinal int
		if err := detailed.Scan(&name, &dataType, &dflt, &charMaxLen, &precision, &ordinal); err != nil {
			return nil, err
		}
		col, ok := columns[name]
		if !ok {
			continue
		}
		col.DataType = dataType
		col.Default = dflt
		col.CharMaxLen = charMaxLen
		col.Precision = precision
		col.OrdinalPos = ordinal
		seen[name] = true
	}
	if err := detailed.Err(); err != nil {
		return nil, err
	}

	for _, name := range order {
		if !seen[name] {
			return nil, fmt.Errorf("column %s.%s has no information_schema row", tableName, name)
		}
	}
	return columns, nil
}

// listIndexes returns every index on the table. Key column text comes
// from pg_get_indexdef per key position, so expression key parts arrive
// as their SQL text rather than a column name.
func (r *catalogReader) listIndexes(ctx context.Context, tableName string) ([]IndexDescriptor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.relname,
		        ix.indisunique,
		        ix.indisprimary,
		        ix.indexprs IS NOT NULL,
		        ix.indpred IS NOT NULL,
		        (SELECT array_agg(pg_get_indexdef(ix.indexrelid, s.i, true) ORDER BY s.i)
		         FROM generate_series(1, ix.indnkeyatts) AS s(i))
		 FROM pg_index ix
		 JOIN pg_class i ON i.oid = ix.indexrelid
		 JOIN pg_class t ON t.oid = ix.indrelid
		 JOIN pg_namespace n ON n.oid = t.relnamespace
		 WHERE n.nspname = $1 AND t.relname = $2
		 ORDER BY i.relname`,
		r.schema, tableName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var indexes []IndexDescriptor
	for rows.Next() {
		idx := IndexDescriptor{TableName: tableName}
		if err := rows.Scan(&idx.Name, &idx.Unique, &idx.IsPrimary, &idx.IsFunctional, &idx.IsPartial, &idx.Columns); err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}
