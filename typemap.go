package main

import (
	"fmt"
	"strconv"
	"strings"
)

// resolveType maps a catalog column to its semantic migration type plus
// constructor arguments. The mapping is fixed: catalog vocabulary the
// tool does not know is a hard error, not a guess.
func resolveType(col *ColumnDescriptor) (TypeResolution, error) {
	var semantic string
	switch col.DataType {
	case "integer":
		semantic = typeInteger
	case "character varying":
		semantic = typeString
	case "jsonb":
		semantic = typeJsonb
	case "timestamp with time zone":
		semantic = typeTimestamp
	case "text":
		semantic = typeText
	case "boolean":
		semantic = typeBoolean
	case "real":
		semantic = typeFloat
	case "numeric":
		semantic = typeDecimal
	case "USER-DEFINED":
		semantic = typeSpecific
	default:
		return TypeResolution{}, fmt.Errorf("column %s: unsupported column type %q", col.Name, col.DataType)
	}

	res := TypeResolution{SemanticType: semantic}
	switch semantic {
	case typeInteger:
		// Only the default expression distinguishes an auto-increment
		// column from a plain integer.
		if col.Default != nil && strings.HasPrefix(*col.Default, "nextval(") {
			res.SemanticType = typeIncrements
		}
	case typeString:
		if col.CharMaxLen != nil {
			res.Args = append(res.Args, strconv.FormatInt(*col.CharMaxLen, 10))
		}
	case typeDecimal:
		if col.Precision != nil {
			res.Args = append(res.Args, strconv.FormatInt(*col.Precision, 10))
		}
	case typeSpecific:
		name, err := specificTypeName(col)
		if err != nil {
			return TypeResolution{}, err
		}
		res.Args = append(res.Args, name)
	}
	return res, nil
}

// specificTypeName recovers an enum or extension type name from the
// trailing ::typename cast of the column default, e.g. 'draft'::post_status.
// The catalog reports such columns only as USER-DEFINED, so a column
// without that cast cannot be resolved.
func specificTypeName(col *ColumnDescriptor) (string, error) {
	if col.Default == nil {
		return "", fmt.Errorf("column %s: user-defined type has no default to take a ::type cast from", col.Name)
	}
	raw := *col.Default
	i := strings.LastIndex(raw, "::")
	if i < 0 {
		return "", fmt.Errorf("column %s: no ::type cast in default %q", col.Name, raw)
	}
	name := strings.Trim(strings.TrimSpace(raw[i+2:]), `"`)
	if name == "" {
		return "", fmt.Errorf("column %s: no ::type cast in default %q", col.Name, raw)
	}
	return name, nil
}
