package main

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// quotedLiteralRE matches a single-quoted SQL literal with an optional
// ::type cast suffix, capturing the body with its '' escapes intact.
var quotedLiteralRE = regexp.MustCompile(`^'((?:[^']|'')*)'(?:::[\w ."]+)?$`)

// normalizeDefault turns a raw catalog default expression into a value a
// generated migration can carry. Catalog defaults are free-form SQL, so
// only a closed set of shapes round-trips; everything else degrades to no
// default, with a warning when the shape looked like it should have
// parsed for the column's type.
func normalizeDefault(log zerolog.Logger, table string, col *ColumnDescriptor, semanticType string) DefaultValue {
	if col.Default == nil {
		return DefaultValue{Kind: defaultNone}
	}
	if semanticType == typeIncrements {
		// The sequence owns the default.
		return DefaultValue{Kind: defaultNone}
	}
	raw := *col.Default

	if m := quotedLiteralRE.FindStringSubmatch(raw); m != nil {
		return DefaultValue{Kind: defaultString, Str: strings.ReplaceAll(m[1], "''", "'")}
	}

	switch semanticType {
	case typeDecimal, typeInteger:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Warn().
				Str("table", table).
				Str("column", col.Name).
				Str("type", semanticType).
				Str("default", raw).
				Msg("default is not a parseable number, dropping it")
			return DefaultValue{Kind: defaultNone}
		}
		return DefaultValue{Kind: defaultNumber, Num: n}
	case typeBoolean:
		var v any
		if err := json.Unmarshal([]byte(strings.Trim(raw, "'")), &v); err == nil {
			if b, ok := v.(bool); ok {
				return DefaultValue{Kind: defaultBool, Bool: b}
			}
		}
		log.Warn().
			Str("table", table).
			Str("column", col.Name).
			Str("type", semanticType).
			Str("default", raw).
			Msg("default is not a parseable boolean, dropping it")
		return DefaultValue{Kind: defaultNone}
	}
	return DefaultValue{Kind: defaultNone}
}
