package main

// TableDescriptor identifies one user table discovered in the target schema.
type TableDescriptor struct {
	Schema string
	Name   string
	Kind   string // table_type from information_schema, always BASE TABLE here
}

// ColumnDescriptor merges the concise and detailed catalog views of one
// column. Name and Nullable come from pg_attribute; the rest comes from
// information_schema.columns.
type ColumnDescriptor struct {
	Name       string
	DataType   string  // information_schema vocabulary, e.g. "character varying"
	Nullable   bool
	Default    *string // raw column_default expression, nil when absent
	CharMaxLen *int64
	Precision  *int64
	OrdinalPos int

	// AttachedIndex is set when the classifier matched exactly one
	// single-column index to this column; it renders as a modifier on
	// the column clause instead of a table-level clause.
	AttachedIndex *IndexDescriptor
}

// IndexDescriptor is one pg_index entry scoped to a table.
type IndexDescriptor struct {
	Name           string
	TableName      string
	Columns        []string // key column text from pg_get_indexdef, in key order
	Unique         bool
	IsPrimary      bool
	IsFunctional   bool // has expression key parts
	IsPartial      bool // has a WHERE predicate
	Classification string
}

// Index classifications.
const (
	indexSingle     = "single"
	indexMultiple   = "multiple"
	indexUnresolved = "unresolved"
)

// TypeResolution is the semantic column type plus its constructor
// arguments, derived from a column's raw type and default expression.
type TypeResolution struct {
	SemanticType string
	Args         []string
}

// Semantic column types, named after the schema package constructors they
// render to.
const (
	typeIncrements = "increments"
	typeInteger    = "integer"
	typeString     = "string"
	typeText       = "text"
	typeBoolean    = "boolean"
	typeFloat      = "float"
	typeDecimal    = "decimal"
	typeJsonb      = "jsonb"
	typeTimestamp  = "timestamp"
	typeSpecific   = "specificType"
)

// DefaultValue is a normalized column default in renderer-neutral form:
// the normalizer decides what the value is, the renderer decides how to
// format it.
type DefaultValue struct {
	Kind string
	Str  string
	Num  float64
	Bool bool
}

// Default-value kinds.
const (
	defaultNone   = "none"
	defaultString = "string"
	defaultNumber = "number"
	defaultBool   = "bool"
)
