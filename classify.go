package main

import (
	"strings"

	"github.com/rs/zerolog"
)

// classifyIndexes splits a table's indexes into column attachments and
// table-level clauses. A single-column index that matches a known column
// is attached to that column; when several single-column indexes target
// the same column the last one replaces the earlier attachment. A
// single-column index whose key text matches no column (an expression, or
// a catalog inconsistency) is dropped with a warning. Indexes over more
// than one column come back for table-level emission.
func classifyIndexes(log zerolog.Logger, table string, columns map[string]*ColumnDescriptor, indexes []IndexDescriptor) []IndexDescriptor {
	var tableLevel []IndexDescriptor
	for _, idx := range indexes {
		if len(idx.Columns) > 1 {
			idx.Classification = indexMultiple
			tableLevel = append(tableLevel, idx)
			continue
		}

		var name string
		if len(idx.Columns) == 1 {
			name = strings.ReplaceAll(idx.Columns[0], `"`, "")
		}
		col, ok := columns[name]
		if !ok {
			idx.Classification = indexUnresolved
			log.Warn().
				Str("table", table).
				Str("index", idx.Name).
				Str("key", strings.Join(idx.Columns, ", ")).
				Msg("index matches no column, skipping it")
			continue
		}

		idx.Classification = indexSingle
		attached := idx
		col.AttachedIndex = &attached
	}
	return tableLevel
}
