// Package schema derives the protocol schema response from a validated
// configuration.
//
// Derivation is pure and deterministic: the same Configuration always
// yields byte-identical, canonically ordered output, so it is safe to call
// from any number of request-handling goroutines.
package schema

import (
	"sort"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/configuration"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
	"github.com/soorajshankar/ndc-postgres/internal/ndc"
)

// Derive builds the schema response for a validated configuration against
// the given operator catalog.
func Derive(cfg configuration.Configuration, cat *catalog.Catalog) ndc.SchemaResponse {
	config := cfg.Config()

	scalarTypes := ndc.ScalarTypeMap{}
	for _, scalarType := range occurringScalarTypes(config) {
		scalarTypes[string(scalarType)] = deriveScalarType(scalarType, config.Metadata.AggregateFunctions, cat)
	}

	collections := make([]ndc.CollectionInfo, 0, len(config.Metadata.Tables)+len(config.Metadata.NativeQueries))
	objectTypes := ndc.ObjectTypeMap{}

	for _, name := range sortedKeys(config.Metadata.Tables) {
		table := config.Metadata.Tables[name]
		collections = append(collections, deriveTableCollection(name, table))
		objectTypes[name] = deriveObjectType(table.Columns)
	}

	for _, name := range sortedKeys(config.Metadata.NativeQueries) {
		query := config.Metadata.NativeQueries[name]
		collections = append(collections, deriveNativeQueryCollection(name, query))
		objectTypes[name] = deriveObjectType(query.Columns)
	}

	return ndc.SchemaResponse{
		ScalarTypes: scalarTypes,
		ObjectTypes: objectTypes,
		Collections: collections,
		Functions:   []ndc.FunctionInfo{},
		Procedures:  []ndc.ProcedureInfo{},
	}
}

// occurringScalarTypes collects every scalar type mentioned anywhere in
// the metadata: table columns, native query columns and arguments, and
// types with discovered aggregates. The result is sorted.
func occurringScalarTypes(config configuration.RawConfiguration) []metadata.ScalarType {
	seen := map[metadata.ScalarType]struct{}{}

	for _, table := range config.Metadata.Tables {
		for _, column := range table.Columns {
			seen[column.Type] = struct{}{}
		}
	}
	for _, query := range config.Metadata.NativeQueries {
		for _, column := range query.Columns {
			seen[column.Type] = struct{}{}
		}
		for _, argument := range query.Arguments {
			seen[argument.Type] = struct{}{}
		}
	}
	for scalarType := range config.Metadata.AggregateFunctions {
		seen[scalarType] = struct{}{}
	}

	types := make([]metadata.ScalarType, 0, len(seen))
	for scalarType := range seen {
		types = append(types, scalarType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// deriveScalarType assembles the capability surface of one scalar type.
// Equality applies to every type without a catalog lookup, so even a type
// the catalog has never heard of carries a one-entry operator map.
func deriveScalarType(
	scalarType metadata.ScalarType,
	aggregateFunctions metadata.AggregateFunctions,
	cat *catalog.Catalog,
) ndc.ScalarType {
	derived := ndc.ScalarType{
		AggregateFunctions:  map[string]ndc.AggregateFunctionDefinition{},
		ComparisonOperators: map[string]ndc.ComparisonOperatorDefinition{},
		UpdateOperators:     map[string]struct{}{},
	}

	for name, function := range aggregateFunctions[scalarType] {
		derived.AggregateFunctions[name] = ndc.AggregateFunctionDefinition{
			ResultType: ndc.NamedType(string(function.ReturnType)),
		}
	}

	derived.ComparisonOperators["_eq"] = ndc.ComparisonOperatorDefinition{
		ArgumentType: ndc.NamedType(string(scalarType)),
	}
	for _, operator := range cat.Comparisons(scalarType) {
		derived.ComparisonOperators[operator.Name] = ndc.ComparisonOperatorDefinition{
			ArgumentType: ndc.NamedType(string(operator.ArgumentType)),
		}
	}

	return derived
}

// deriveTableCollection emits the collection entry for one table. The
// connector is read-only: nothing is insertable, updatable, or deletable.
// Constraint maps are empty rather than absent when a table has none.
func deriveTableCollection(name string, table metadata.TableInfo) ndc.CollectionInfo {
	uniqueness := map[string]ndc.UniquenessConstraint{}
	for constraintName, columns := range table.UniquenessConstraints {
		uniqueness[constraintName] = ndc.UniquenessConstraint{UniqueColumns: columns}
	}

	foreignKeys := map[string]ndc.ForeignKeyConstraint{}
	for constraintName, relation := range table.ForeignRelations {
		foreignKeys[constraintName] = ndc.ForeignKeyConstraint{
			ForeignCollection: relation.ForeignTable,
			ColumnMapping:     relation.ColumnMapping,
		}
	}

	return ndc.CollectionInfo{
		Name:                  name,
		Arguments:             map[string]ndc.ArgumentInfo{},
		CollectionType:        name,
		Deletable:             false,
		UniquenessConstraints: uniqueness,
		ForeignKeys:           foreignKeys,
	}
}

// deriveNativeQueryCollection emits the collection entry for one native
// query: arguments come from its declaration, and it carries no
// constraints or foreign keys.
func deriveNativeQueryCollection(name string, query metadata.NativeQueryInfo) ndc.CollectionInfo {
	arguments := map[string]ndc.ArgumentInfo{}
	for argumentName, argument := range query.Arguments {
		arguments[argumentName] = ndc.ArgumentInfo{ArgumentType: columnType(argument)}
	}

	return ndc.CollectionInfo{
		Name:                  name,
		Arguments:             arguments,
		CollectionType:        name,
		Deletable:             false,
		UniquenessConstraints: map[string]ndc.UniquenessConstraint{},
		ForeignKeys:           map[string]ndc.ForeignKeyConstraint{},
	}
}

// deriveObjectType builds the row type of a table or native query.
func deriveObjectType(columns map[string]metadata.ColumnInfo) ndc.ObjectType {
	fields := map[string]ndc.ObjectField{}
	for _, column := range columns {
		fields[column.Name] = ndc.ObjectField{Type: columnType(column)}
	}
	return ndc.ObjectType{Fields: fields}
}

// columnType is the column's named scalar type, wrapped as nullable iff
// the column admits NULL.
func columnType(column metadata.ColumnInfo) ndc.Type {
	named := ndc.NamedType(string(column.Type))
	if column.Nullable.IsNullable() {
		return ndc.NullableType(named)
	}
	return named
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
