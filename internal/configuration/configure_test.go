package configuration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajshankar/ndc-postgres/internal/errs"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

func TestDiscoveryQueryEmbedded(t *testing.T) {
	assert.NotEmpty(t, DiscoveryQuery)
}

func TestConfigureRequiresEndpoint(t *testing.T) {
	_, err := Configure(context.Background(), Empty(), DiscoveryQuery)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestDecodeIntrospection(t *testing.T) {
	tablesJSON := []byte(`{
		"Album": {
			"schema_name": "public",
			"table_name": "Album",
			"columns": {
				"AlbumId": {"name": "AlbumId", "type": "int4", "nullable": "nonNullable"},
				"Title":   {"name": "Title", "type": "text", "nullable": "nullable"}
			},
			"uniqueness_constraints": {"PK_Album": ["AlbumId"]},
			"foreign_relations": {
				"FK_AlbumArtistId": {
					"foreign_table": "Artist",
					"column_mapping": {"ArtistId": "ArtistId"}
				}
			}
		}
	}`)
	aggregatesJSON := []byte(`{
		"int4": {
			"sum": {"return_type": "int8"},
			"avg": {"return_type": "numeric"}
		}
	}`)

	tables, aggregates, err := decodeIntrospection(tablesJSON, aggregatesJSON)
	require.NoError(t, err)

	album, ok := tables["Album"]
	require.True(t, ok)
	assert.Equal(t, "public", album.SchemaName)
	assert.Equal(t, metadata.ScalarType("int4"), album.Columns["AlbumId"].Type)
	assert.True(t, album.Columns["Title"].Nullable.IsNullable())
	assert.Equal(t, metadata.UniquenessConstraint{"AlbumId"}, album.UniquenessConstraints["PK_Album"])
	assert.Equal(t, "Artist", album.ForeignRelations["FK_AlbumArtistId"].ForeignTable)

	require.Contains(t, aggregates, metadata.ScalarType("int4"))
	assert.Equal(t, metadata.ScalarType("int8"), aggregates["int4"]["sum"].ReturnType)
}

func TestDecodeIntrospectionEmptyDatabase(t *testing.T) {
	tables, aggregates, err := decodeIntrospection([]byte(`{}`), []byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.NotNil(t, tables)
	assert.Empty(t, aggregates)
	assert.NotNil(t, aggregates)
}

func TestDecodeIntrospectionRejectsMalformed(t *testing.T) {
	tests := []struct {
		name       string
		tables     string
		aggregates string
	}{
		{name: "tables not an object", tables: `[1, 2]`, aggregates: `{}`},
		{name: "aggregates not an object", tables: `{}`, aggregates: `"nope"`},
		{name: "truncated json", tables: `{"Album": {`, aggregates: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeIntrospection([]byte(tt.tables), []byte(tt.aggregates))
			require.Error(t, err)
			assert.True(t, errs.IsDecode(err))
		})
	}
}
