package ndc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeMarshal(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{
			name: "named",
			typ:  NamedType("int4"),
			want: `{"type": "named", "name": "int4"}`,
		},
		{
			name: "nullable named",
			typ:  NullableType(NamedType("text")),
			want: `{"type": "nullable", "underlying_type": {"type": "named", "name": "text"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.typ)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))

			var back Type
			require.NoError(t, json.Unmarshal(out, &back))
			assert.Equal(t, tt.typ, back)
		})
	}
}

func TestTypeMarshalUninitialized(t *testing.T) {
	_, err := json.Marshal(Type{})
	assert.Error(t, err)
}

func TestTypeUnmarshalRejectsUnknownKind(t *testing.T) {
	var typ Type
	assert.Error(t, json.Unmarshal([]byte(`{"type": "array"}`), &typ))
	assert.Error(t, json.Unmarshal([]byte(`{"type": "nullable"}`), &typ))
}

func TestTypeAccessors(t *testing.T) {
	named := NamedType("uuid")
	assert.False(t, named.IsNullable())
	assert.Equal(t, "uuid", named.Name())

	nullable := NullableType(named)
	assert.True(t, nullable.IsNullable())
	assert.Equal(t, "uuid", nullable.Name())
}

func TestNilMapsSerializeAsObjects(t *testing.T) {
	out, err := json.Marshal(ScalarType{})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"aggregate_functions": {},
		"comparison_operators": {},
		"update_operators": {}
	}`, string(out))
}
