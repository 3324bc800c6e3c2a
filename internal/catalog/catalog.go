// Package catalog holds the static, per-dialect table of comparison
// operators applicable to each scalar type.
//
// The catalog is process-wide immutable data: build one per dialect at
// startup and share it freely. It is the single source of truth for which
// operator names a scalar type supports, which SQL symbol or function each
// one maps to, and what scalar type the right-hand argument must have.
// Equality is universal and intentionally absent here; callers handle it
// without a lookup.
package catalog

import (
	"sort"

	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

// Dialect identifies a Postgres-family database engine.
type Dialect string

const (
	DialectPostgres  Dialect = "postgres"
	DialectCitus     Dialect = "citus"
	DialectCockroach Dialect = "cockroach"
)

// Operator describes how one comparison operator renders in SQL for a
// given left-hand scalar type.
type Operator struct {
	// Name is the protocol-level operator name, e.g. "_lt".
	Name string

	// SQLName is the SQL symbol or function name, e.g. "<" or "starts_with".
	SQLName string

	// Infix distinguishes `a OP b` from `FN(a, b)` rendering.
	Infix bool

	// ArgumentType is the scalar type required of the right-hand operand.
	// It is resolved per left-hand type: range containment, for example,
	// takes the range's element type rather than another range.
	ArgumentType metadata.ScalarType
}

// Catalog is the operator capability table for one dialect.
type Catalog struct {
	dialect   Dialect
	operators map[metadata.ScalarType]map[string]Operator
}

// New builds the catalog for the given dialect. Unknown dialects fall back
// to the base Postgres catalog.
func New(dialect Dialect) *Catalog {
	c := &Catalog{
		dialect:   dialect,
		operators: map[metadata.ScalarType]map[string]Operator{},
	}

	for _, t := range orderedTypes {
		c.addInfix(t, "_neq", "<>", t)
		c.addInfix(t, "_lt", "<", t)
		c.addInfix(t, "_lte", "<=", t)
		c.addInfix(t, "_gt", ">", t)
		c.addInfix(t, "_gte", ">=", t)
	}

	for _, t := range textTypes {
		c.addInfix(t, "_like", "LIKE", t)
		c.addInfix(t, "_nlike", "NOT LIKE", t)
		c.addInfix(t, "_ilike", "ILIKE", t)
		c.addInfix(t, "_nilike", "NOT ILIKE", t)
		c.addInfix(t, "_regex", "~", t)
		c.addInfix(t, "_iregex", "~*", t)
		c.addInfix(t, "_nregex", "!~", t)
		c.addInfix(t, "_niregex", "!~*", t)
		c.add(t, Operator{Name: "_starts_with", SQLName: "starts_with", Infix: false, ArgumentType: t})
	}

	// CockroachDB rejects SIMILAR TO and has no range column types, so
	// both groups are limited to the Postgres-proper engines.
	if dialect != DialectCockroach {
		for _, t := range textTypes {
			c.addInfix(t, "_similar", "SIMILAR TO", t)
			c.addInfix(t, "_nsimilar", "NOT SIMILAR TO", t)
		}
		for rangeType, elementType := range rangeElementTypes {
			c.addInfix(rangeType, "_neq", "<>", rangeType)
			c.addInfix(rangeType, "_lt", "<", rangeType)
			c.addInfix(rangeType, "_lte", "<=", rangeType)
			c.addInfix(rangeType, "_gt", ">", rangeType)
			c.addInfix(rangeType, "_gte", ">=", rangeType)
			c.addInfix(rangeType, "_contains", "@>", elementType)
		}
	}

	return c
}

// Dialect reports which dialect this catalog was built for.
func (c *Catalog) Dialect() Dialect {
	return c.dialect
}

// Comparison looks up one operator by name for the given left-hand scalar
// type. The second return value is false when the type has no such
// operator.
func (c *Catalog) Comparison(left metadata.ScalarType, operator string) (Operator, bool) {
	op, ok := c.operators[left][operator]
	return op, ok
}

// Comparisons returns every operator applicable to the given left-hand
// scalar type, sorted by name. Types unknown to the catalog yield an empty
// slice; equality still applies to them.
func (c *Catalog) Comparisons(left metadata.ScalarType) []Operator {
	ops := make([]Operator, 0, len(c.operators[left]))
	for _, op := range c.operators[left] {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

func (c *Catalog) add(left metadata.ScalarType, op Operator) {
	if c.operators[left] == nil {
		c.operators[left] = map[string]Operator{}
	}
	c.operators[left][op.Name] = op
}

func (c *Catalog) addInfix(left metadata.ScalarType, name, sqlName string, arg metadata.ScalarType) {
	c.add(left, Operator{Name: name, SQLName: sqlName, Infix: true, ArgumentType: arg})
}

// orderedTypes support the standard ordering comparisons.
var orderedTypes = []metadata.ScalarType{
	"bool",
	"int2", "int4", "int8",
	"float4", "float8", "numeric",
	"varchar", "text",
	"date", "time", "timetz", "timestamp", "timestamptz",
	"uuid",
}

// textTypes additionally support pattern matching.
var textTypes = []metadata.ScalarType{"varchar", "text"}

// rangeElementTypes maps each range type to its element type, which is the
// right-hand argument type of containment.
var rangeElementTypes = map[metadata.ScalarType]metadata.ScalarType{
	"int4range": "int4",
	"int8range": "int8",
	"numrange":  "numeric",
	"daterange": "date",
	"tsrange":   "timestamp",
	"tstzrange": "timestamptz",
}
