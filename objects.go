package main

import (
	"context"
	"fmt"
)

// otherObjects holds schema members that generated migrations cannot
// express and that therefore need manual attention.
type otherObjects struct {
	Views    []string
	MatViews []string
}

func (r *catalogReader) listOtherObjects(ctx context.Context) (otherObjects, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.relname, c.relkind::text
		 FROM pg_class c
		 JOIN pg_namespace n ON n.oid = c.relnamespace
		 WHERE n.nspname = $1 AND c.relkind IN ('v', 'm')
		 ORDER BY c.relname`,
		r.schema,
	)
	if err != nil {
		return otherObjects{}, err
	}
	defer rows.Close()

	var objs otherObjects
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return otherObjects{}, err
		}
		switch kind {
		case "v":
			objs.Views = append(objs.Views, name)
		case "m":
			objs.MatViews = append(objs.MatViews, name)
		}
	}
	return objs, rows.Err()
}

// warnings renders the advisory lines for non-table objects, one summary
// line followed by one line per object.
func (o otherObjects) warnings() []string {
	if len(o.Views) == 0 && len(o.MatViews) == 0 {
		return nil
	}

	warnings := []string{fmt.Sprintf(
		"schema contains objects no migration is generated for (%d views, %d materialized views)",
		len(o.Views), len(o.MatViews),
	)}
	for _, v := range o.Views {
		warnings = append(warnings, "view: "+v)
	}
	for _, m := range o.MatViews {
		warnings = append(warnings, "materialized view: "+m)
	}
	return warnings
}
