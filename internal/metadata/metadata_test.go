package metadata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullable(t *testing.T) {
	assert.True(t, IsNullable.IsNullable())
	assert.False(t, NonNullable.IsNullable())

	// Absent in JSON means non-nullable.
	var column ColumnInfo
	require.NoError(t, json.Unmarshal([]byte(`{"name": "id", "type": "int4"}`), &column))
	assert.False(t, column.Nullable.IsNullable())
}

func TestMetadataUnmarshalFillsSections(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty object", input: `{}`},
		{name: "tables only", input: `{"tables": {}}`},
		{name: "explicit nulls", input: `{"tables": null, "native_queries": null, "aggregate_functions": null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metadata
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))
			assert.NotNil(t, m.Tables)
			assert.NotNil(t, m.NativeQueries)
			assert.NotNil(t, m.AggregateFunctions)
		})
	}
}

func TestTableInfoRoundTrip(t *testing.T) {
	input := `{
		"schema_name": "public",
		"table_name": "Track",
		"columns": {
			"TrackId": {"name": "TrackId", "type": "int4"},
			"Name": {"name": "Name", "type": "varchar", "nullable": "nullable"}
		},
		"uniqueness_constraints": {"PK_Track": ["TrackId"]},
		"foreign_relations": {
			"FK_TrackAlbumId": {
				"foreign_table": "Album",
				"column_mapping": {"AlbumId": "AlbumId"}
			}
		}
	}`

	var table TableInfo
	require.NoError(t, json.Unmarshal([]byte(input), &table))

	out, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}
