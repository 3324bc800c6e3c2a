package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soorajshankar/ndc-postgres/internal/catalog"
	"github.com/soorajshankar/ndc-postgres/internal/configuration"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

func chinookConfiguration(t *testing.T) configuration.Configuration {
	t.Helper()

	raw := configuration.Empty()
	raw.ConnectionURIs = configuration.SingleURI("postgresql://u@h/chinook")
	raw.Metadata.Tables = metadata.TablesInfo{
		"Album": {
			SchemaName: "public",
			TableName:  "Album",
			Columns: map[string]metadata.ColumnInfo{
				"AlbumId": {Name: "AlbumId", Type: "int4"},
				"Title":   {Name: "Title", Type: "text", Nullable: metadata.IsNullable},
			},
			UniquenessConstraints: metadata.UniquenessConstraints{
				"PK_Album": {"AlbumId"},
			},
			ForeignRelations: metadata.ForeignRelations{
				"FK_AlbumArtistId": {
					ForeignTable:  "Artist",
					ColumnMapping: map[string]string{"ArtistId": "ArtistId"},
				},
			},
		},
		"Artist": {
			SchemaName: "public",
			TableName:  "Artist",
			Columns: map[string]metadata.ColumnInfo{
				"ArtistId": {Name: "ArtistId", Type: "int4"},
				"Name":     {Name: "Name", Type: "text", Nullable: metadata.IsNullable},
			},
		},
	}
	raw.Metadata.NativeQueries = metadata.NativeQueries{
		"artist_by_name": {
			SQL: "SELECT * FROM \"Artist\" WHERE \"Name\" LIKE $1",
			Columns: map[string]metadata.ColumnInfo{
				"ArtistId": {Name: "ArtistId", Type: "int4"},
			},
			Arguments: map[string]metadata.ColumnInfo{
				"name": {Name: "name", Type: "varchar"},
			},
		},
	}
	raw.Metadata.AggregateFunctions = metadata.AggregateFunctions{
		"int4": {
			"sum": {ReturnType: "int8"},
		},
		"money": {
			"sum": {ReturnType: "money"},
		},
	}

	cfg, err := configuration.Validate(raw)
	require.NoError(t, err)
	return cfg
}

func TestDeriveScalarTypes(t *testing.T) {
	response := Derive(chinookConfiguration(t), catalog.New(catalog.DialectPostgres))

	// The occurring types: table columns, native query columns and
	// arguments, and every type with a discovered aggregate.
	for _, want := range []string{"int4", "text", "varchar", "money"} {
		assert.Contains(t, response.ScalarTypes, want)
	}
	assert.NotContains(t, response.ScalarTypes, "int8", "aggregate result types do not occur by themselves")

	int4 := response.ScalarTypes["int4"]
	require.Contains(t, int4.AggregateFunctions, "sum")
	assert.Equal(t, "int8", int4.AggregateFunctions["sum"].ResultType.Name())
	require.Contains(t, int4.ComparisonOperators, "_lt")
	assert.Equal(t, "int4", int4.ComparisonOperators["_lt"].ArgumentType.Name())

	// money is unknown to the catalog: equality still applies, and its
	// operator map has exactly that one entry.
	money := response.ScalarTypes["money"]
	require.Len(t, money.ComparisonOperators, 1)
	assert.Equal(t, "money", money.ComparisonOperators["_eq"].ArgumentType.Name())
}

func TestDeriveObjectTypes(t *testing.T) {
	response := Derive(chinookConfiguration(t), catalog.New(catalog.DialectPostgres))

	album, ok := response.ObjectTypes["Album"]
	require.True(t, ok)

	albumID := album.Fields["AlbumId"].Type
	assert.False(t, albumID.IsNullable())
	assert.Equal(t, "int4", albumID.Name())

	title := album.Fields["Title"].Type
	assert.True(t, title.IsNullable())
	assert.Equal(t, "text", title.Name())
}

func TestDeriveCollections(t *testing.T) {
	response := Derive(chinookConfiguration(t), catalog.New(catalog.DialectPostgres))

	require.Len(t, response.Collections, 3)

	// Tables first, then native queries, each sorted by name.
	assert.Equal(t, "Album", response.Collections[0].Name)
	assert.Equal(t, "Artist", response.Collections[1].Name)
	assert.Equal(t, "artist_by_name", response.Collections[2].Name)

	album := response.Collections[0]
	assert.Equal(t, "Album", album.CollectionType)
	assert.False(t, album.Deletable)
	assert.Nil(t, album.InsertableColumns)
	assert.Nil(t, album.UpdatableColumns)
	require.Contains(t, album.UniquenessConstraints, "PK_Album")
	assert.Equal(t, []string{"AlbumId"}, album.UniquenessConstraints["PK_Album"].UniqueColumns)
	require.Contains(t, album.ForeignKeys, "FK_AlbumArtistId")
	assert.Equal(t, "Artist", album.ForeignKeys["FK_AlbumArtistId"].ForeignCollection)

	// A table with no constraints still carries empty maps, not nil.
	artist := response.Collections[1]
	assert.NotNil(t, artist.UniquenessConstraints)
	assert.Empty(t, artist.UniquenessConstraints)
	assert.NotNil(t, artist.ForeignKeys)
	assert.Empty(t, artist.ForeignKeys)

	nativeQuery := response.Collections[2]
	require.Contains(t, nativeQuery.Arguments, "name")
	assert.Equal(t, "varchar", nativeQuery.Arguments["name"].ArgumentType.Name())
	assert.Empty(t, nativeQuery.UniquenessConstraints)
	assert.Empty(t, nativeQuery.ForeignKeys)
}

func TestDeriveProceduresAndFunctionsEmpty(t *testing.T) {
	response := Derive(chinookConfiguration(t), catalog.New(catalog.DialectPostgres))

	out, err := json.Marshal(response)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.JSONEq(t, `[]`, string(fields["procedures"]))
	assert.JSONEq(t, `[]`, string(fields["functions"]))
}

func TestDeriveDeterministic(t *testing.T) {
	cfg := chinookConfiguration(t)
	cat := catalog.New(catalog.DialectPostgres)

	first, err := json.Marshal(Derive(cfg, cat))
	require.NoError(t, err)
	second, err := json.Marshal(Derive(cfg, cat))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}


func TestDeriveEmptyMetadata(t *testing.T) {
	raw := configuration.Empty()
	raw.ConnectionURIs = configuration.SingleURI("postgresql://u@h/db")
	cfg, err := configuration.Validate(raw)
	require.NoError(t, err)

	response := Derive(cfg, catalog.New(catalog.DialectPostgres))
	assert.Empty(t, response.ScalarTypes)
	assert.Empty(t, response.ObjectTypes)
	assert.Empty(t, response.Collections)

	// Empty sections serialize as {} and [], never null.
	out, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"scalar_types": {},
		"object_types": {},
		"collections": [],
		"functions": [],
		"procedures": []
	}`, string(out))
}
