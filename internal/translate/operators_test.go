package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

func TestComparisonEqualBypassesCatalog(t *testing.T) {
	cat := catalog.New(catalog.DialectPostgres)

	// _eq applies to every scalar type, including ones the catalog has
	// never heard of, and the right-hand type is always the left-hand
	// type.
	for _, left := range []metadata.ScalarType{"int4", "text", "uuid", "int4range", "citext", "some_custom_enum"} {
		op, rhs, err := Comparison(cat, left, "_eq")
		require.NoError(t, err, "scalar type %s", left)
		assert.Equal(t, Equals(), op)
		assert.Equal(t, left, rhs)
	}
}

func TestComparisonCatalogLookup(t *testing.T) {
	cat := catalog.New(catalog.DialectPostgres)

	tests := []struct {
		name      string
		left      metadata.ScalarType
		operator  string
		wantSQL   string
		wantInfix bool
		wantRHS   metadata.ScalarType
	}{
		{
			name:      "infix ordering operator",
			left:      "int8",
			operator:  "_gte",
			wantSQL:   ">=",
			wantInfix: true,
			wantRHS:   "int8",
		},
		{
			name:      "pattern match",
			left:      "text",
			operator:  "_ilike",
			wantSQL:   "ILIKE",
			wantInfix: true,
			wantRHS:   "text",
		},
		{
			name:      "function call fixity",
			left:      "text",
			operator:  "_starts_with",
			wantSQL:   "starts_with",
			wantInfix: false,
			wantRHS:   "text",
		},
		{
			name:      "right-hand type depends on the left operand",
			left:      "tstzrange",
			operator:  "_contains",
			wantSQL:   "@>",
			wantInfix: true,
			wantRHS:   "timestamptz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, rhs, err := Comparison(cat, tt.left, tt.operator)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, op.Name)
			assert.Equal(t, tt.wantInfix, op.Infix)
			assert.Equal(t, tt.wantRHS, rhs)
		})
	}
}

func TestComparisonUnknownOperator(t *testing.T) {
	cat := catalog.New(catalog.DialectPostgres)

	_, _, err := Comparison(cat, "int4", "_like")
	require.Error(t, err)

	var translationErr *TranslationError
	require.ErrorAs(t, err, &translationErr)
	assert.Equal(t, metadata.ScalarType("int4"), translationErr.ScalarType)
	assert.Equal(t, "_like", translationErr.Operator)

	// The message names both the type and the operator.
	assert.Contains(t, err.Error(), "int4")
	assert.Contains(t, err.Error(), "_like")
}

func TestComparisonDialectSensitive(t *testing.T) {
	cockroach := catalog.New(catalog.DialectCockroach)

	_, _, err := Comparison(cockroach, "text", "_similar")
	var translationErr *TranslationError
	require.ErrorAs(t, err, &translationErr)
}
