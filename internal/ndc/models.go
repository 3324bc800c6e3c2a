// Package ndc defines the wire models of the query protocol this
// connector implements: the schema response returned to the calling
// platform and the capabilities advertisement.
package ndc

import (
	"encoding/json"
	"fmt"
)

// SchemaResponse is the body of the schema endpoint.
//
// Collections are emitted sorted by name; map keys serialize in sorted
// order, so the whole response is canonical and diff-stable across runs.
type SchemaResponse struct {
	ScalarTypes fieldMap[ScalarType] `json:"scalar_types"`
	ObjectTypes fieldMap[ObjectType] `json:"object_types"`
	Collections []CollectionInfo     `json:"collections"`
	Functions   []FunctionInfo       `json:"functions"`
	Procedures  []ProcedureInfo      `json:"procedures"`
}

// fieldMap is a map that always serializes to a JSON object, never null.
type fieldMap[T any] map[string]T

func (m fieldMap[T]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]T(m))
}

// ScalarTypeMap and ObjectTypeMap are the concrete map types of a schema
// response.
type (
	ScalarTypeMap = fieldMap[ScalarType]
	ObjectTypeMap = fieldMap[ObjectType]
)

// ScalarType describes the capability surface of one scalar type: which
// aggregates and comparison operators apply to it.
type ScalarType struct {
	AggregateFunctions  fieldMap[AggregateFunctionDefinition]  `json:"aggregate_functions"`
	ComparisonOperators fieldMap[ComparisonOperatorDefinition] `json:"comparison_operators"`
	UpdateOperators     fieldMap[struct{}]                     `json:"update_operators"`
}

// AggregateFunctionDefinition gives the result type of an aggregate.
type AggregateFunctionDefinition struct {
	ResultType Type `json:"result_type"`
}

// ComparisonOperatorDefinition gives the required right-hand argument type
// of a comparison operator.
type ComparisonOperatorDefinition struct {
	ArgumentType Type `json:"argument_type"`
}

// Type is the protocol's type expression: a named type or a nullable
// wrapper around another type.
type Type struct {
	kind       string
	name       string
	underlying *Type
}

// NamedType constructs a reference to the scalar or object type with the
// given name.
func NamedType(name string) Type {
	return Type{kind: "named", name: name}
}

// NullableType wraps a type to admit null.
func NullableType(underlying Type) Type {
	u := underlying
	return Type{kind: "nullable", underlying: &u}
}

// IsNullable reports whether t is a nullable wrapper.
func (t Type) IsNullable() bool {
	return t.kind == "nullable"
}

// Name returns the type name for named types, and the underlying name for
// nullable wrappers.
func (t Type) Name() string {
	if t.kind == "nullable" {
		return t.underlying.Name()
	}
	return t.name
}

func (t Type) MarshalJSON() ([]byte, error) {
	switch t.kind {
	case "named":
		return json.Marshal(struct {
			Kind string `json:"type"`
			Name string `json:"name"`
		}{t.kind, t.name})
	case "nullable":
		return json.Marshal(struct {
			Kind       string `json:"type"`
			Underlying *Type  `json:"underlying_type"`
		}{t.kind, t.underlying})
	default:
		return nil, fmt.Errorf("cannot marshal uninitialized type expression")
	}
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind       string `json:"type"`
		Name       string `json:"name"`
		Underlying *Type  `json:"underlying_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case "named":
		*t = NamedType(raw.Name)
	case "nullable":
		if raw.Underlying == nil {
			return fmt.Errorf("nullable type missing underlying_type")
		}
		*t = NullableType(*raw.Underlying)
	default:
		return fmt.Errorf("unknown type kind %q", raw.Kind)
	}
	return nil
}

// CollectionInfo describes one queryable collection: a table or a native
// query. The connector is read-only, so no insertable or updatable columns
// are ever advertised and deletable is always false.
type CollectionInfo struct {
	Name                  string                         `json:"name"`
	Description           *string                        `json:"description"`
	Arguments             fieldMap[ArgumentInfo]         `json:"arguments"`
	CollectionType        string                         `json:"collection_type"`
	InsertableColumns     []string                       `json:"insertable_columns"`
	UpdatableColumns      []string                       `json:"updatable_columns"`
	Deletable             bool                           `json:"deletable"`
	UniquenessConstraints fieldMap[UniquenessConstraint] `json:"uniqueness_constraints"`
	ForeignKeys           fieldMap[ForeignKeyConstraint] `json:"foreign_keys"`
}

// ArgumentInfo describes one declared argument of a native query.
type ArgumentInfo struct {
	Description  *string `json:"description"`
	ArgumentType Type    `json:"argument_type"`
}

// UniquenessConstraint lists the columns that are jointly unique.
type UniquenessConstraint struct {
	UniqueColumns []string `json:"unique_columns"`
}

// ForeignKeyConstraint maps local columns to columns of a foreign
// collection.
type ForeignKeyConstraint struct {
	ForeignCollection string            `json:"foreign_collection"`
	ColumnMapping     map[string]string `json:"column_mapping"`
}

// ObjectType is the structural description of a collection row.
type ObjectType struct {
	Description *string               `json:"description"`
	Fields      fieldMap[ObjectField] `json:"fields"`
}

// ObjectField is one field of an object type.
type ObjectField struct {
	Description *string `json:"description"`
	Type        Type    `json:"type"`
}

// FunctionInfo and ProcedureInfo exist only so the schema response carries
// the protocol's mandatory empty lists; this connector never populates
// them.
type (
	FunctionInfo  struct{}
	ProcedureInfo struct{}
)

// CapabilitiesResponse is the body of the capabilities endpoint.
type CapabilitiesResponse struct {
	Versions     string       `json:"versions"`
	Capabilities Capabilities `json:"capabilities"`
}

// Capabilities advertises the protocol features the connector supports.
type Capabilities struct {
	Query QueryCapabilities `json:"query"`
}

// QueryCapabilities advertises supported query features.
type QueryCapabilities struct {
	ForeachCapability  map[string]any `json:"foreach,omitempty"`
	RelationCapability map[string]any `json:"relation_comparisons,omitempty"`
}
