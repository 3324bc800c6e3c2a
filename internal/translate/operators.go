// Package translate is the single choke point between abstract comparison
// operators and concrete SQL. Every predicate passes through Comparison
// before SQL generation; new operators and scalar types extend the
// catalog, never bypass it.
package translate

import (
	"fmt"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

// SQLOperator is the concrete SQL form a comparison renders to.
type SQLOperator struct {
	// Name is the SQL symbol or function name.
	Name string

	// Infix selects `a OP b` rendering; otherwise the operator renders
	// as a function call `FN(a, b)`.
	Infix bool
}

// Equals is the universal SQL equality operator.
func Equals() SQLOperator {
	return SQLOperator{Name: "=", Infix: true}
}

// TranslationError reports an operator the left-hand scalar type does not
// support. It rejects only the query being compiled; concurrent work is
// unaffected.
type TranslationError struct {
	ScalarType metadata.ScalarType
	Operator   string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("operator %q is not defined for scalar type %q", e.Operator, e.ScalarType)
}

// Comparison maps a comparison operator and its left operand's scalar
// type to the SQL operator to emit and the scalar type required of the
// right-hand argument.
//
// "_eq" applies to every scalar type and never consults the catalog: it
// is plain SQL equality with the right-hand type equal to the left-hand
// type, no coercion. Every other operator must be present in the left
// type's catalog entry; an absent name is a *TranslationError, never a
// silent default.
func Comparison(
	cat *catalog.Catalog,
	leftType metadata.ScalarType,
	operator string,
) (SQLOperator, metadata.ScalarType, error) {
	if operator == "_eq" {
		return Equals(), leftType, nil
	}

	op, ok := cat.Comparison(leftType, operator)
	if !ok {
		return SQLOperator{}, "", &TranslationError{ScalarType: leftType, Operator: operator}
	}
	return SQLOperator{Name: op.SQLName, Infix: op.Infix}, op.ArgumentType, nil
}
