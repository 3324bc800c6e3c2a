// Package metadata defines the database metadata carried inside a
// deployment configuration: discovered tables, user-declared native
// queries, and discovered aggregate functions.
//
// The JSON shapes here are part of the deployment document contract and
// must stay stable across releases — elaboration re-emits them verbatim.
package metadata

import "encoding/json"

// ScalarType is an opaque database scalar type name, e.g. "int4" or "text".
type ScalarType string

// Metadata groups everything the connector knows about the target database
// beyond how to connect to it.
type Metadata struct {
	Tables             TablesInfo         `json:"tables"`
	NativeQueries      NativeQueries      `json:"native_queries"`
	AggregateFunctions AggregateFunctions `json:"aggregate_functions"`
}

// Empty returns Metadata with all maps allocated, so that serialization
// yields {} rather than null for each section.
func Empty() Metadata {
	return Metadata{
		Tables:             TablesInfo{},
		NativeQueries:      NativeQueries{},
		AggregateFunctions: AggregateFunctions{},
	}
}

// UnmarshalJSON allocates any section omitted from the document, so that
// partially written metadata round-trips to the full {} form.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	type alias Metadata
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata(raw)
	if m.Tables == nil {
		m.Tables = TablesInfo{}
	}
	if m.NativeQueries == nil {
		m.NativeQueries = NativeQueries{}
	}
	if m.AggregateFunctions == nil {
		m.AggregateFunctions = AggregateFunctions{}
	}
	return nil
}

// TablesInfo maps collection names to the tables backing them.
type TablesInfo map[string]TableInfo

// TableInfo describes one discovered table.
type TableInfo struct {
	SchemaName            string                `json:"schema_name"`
	TableName             string                `json:"table_name"`
	Columns               map[string]ColumnInfo `json:"columns"`
	UniquenessConstraints UniquenessConstraints `json:"uniqueness_constraints,omitempty"`
	ForeignRelations      ForeignRelations      `json:"foreign_relations,omitempty"`
}

// ColumnInfo describes one column of a table or native query result.
type ColumnInfo struct {
	Name     string     `json:"name"`
	Type     ScalarType `json:"type"`
	Nullable Nullable   `json:"nullable,omitempty"`
}

// Nullable records whether a column admits NULL. The zero value (absent in
// JSON) means non-nullable, matching the deployment document convention.
type Nullable string

const (
	NonNullable Nullable = "nonNullable"
	IsNullable  Nullable = "nullable"
)

// IsNullable reports whether the column admits NULL.
func (n Nullable) IsNullable() bool {
	return n == IsNullable
}

// UniquenessConstraints maps constraint names to the columns they cover.
type UniquenessConstraints map[string]UniquenessConstraint

// UniquenessConstraint is the set of column names a constraint covers,
// serialized as a JSON array.
type UniquenessConstraint []string

// ForeignRelations maps constraint names to foreign key relations.
type ForeignRelations map[string]ForeignRelation

// ForeignRelation records a foreign key: the referenced table and the
// local column to foreign column mapping.
type ForeignRelation struct {
	ForeignTable  string            `json:"foreign_table"`
	ColumnMapping map[string]string `json:"column_mapping"`
}

// NativeQueries maps collection names to user-declared parameterized reads.
type NativeQueries map[string]NativeQueryInfo

// NativeQueryInfo declares a parameterized SQL read exposed as a
// collection. The SQL text is user-owned and never touched by elaboration.
type NativeQueryInfo struct {
	SQL       string                `json:"sql"`
	Columns   map[string]ColumnInfo `json:"columns"`
	Arguments map[string]ColumnInfo `json:"arguments"`
}

// AggregateFunctions maps a scalar type to the aggregate functions that
// accept it, each with its result type.
type AggregateFunctions map[ScalarType]map[string]AggregateFunction

// AggregateFunction describes one discovered aggregate over one scalar type.
type AggregateFunction struct {
	ReturnType ScalarType `json:"return_type"`
}
