package configuration

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/soorajshankar/ndc-postgres/internal/errs"
	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

// DiscoveryQuery is the introspection query shipped with the connector.
// Its text is opaque to the rest of the code; only its contract matters:
// one parameter (the excluded schema list) and exactly one result row with
// two JSON-encoded columns, tables then aggregate functions.
//
//go:embed configuration.sql
var DiscoveryQuery string

// Configure elaborates a deployment document by introspecting the
// database behind its first connection endpoint.
//
// Discovered tables and aggregate functions replace whatever the document
// held before; native queries, pool settings, excluded schemas, and
// endpoints carry through unchanged. The result is a fresh snapshot, never
// a merge with earlier discovery, and failure is all-or-nothing: on any
// connection, query, or decode error no partial document is returned, so
// retrying after cancellation is always safe.
//
// The connection is short-lived and administrative; no pool is involved.
func Configure(ctx context.Context, args RawConfiguration, configurationQuery string) (RawConfiguration, error) {
	if args.ConnectionURIs.IsEmpty() {
		return RawConfiguration{}, errs.New(errs.ErrKindValidation, "at least one database uri must be specified")
	}

	excludedSchemas := args.ExcludedSchemas
	if excludedSchemas == nil {
		excludedSchemas = DefaultExcludedSchemas()
	}

	conn, err := pgx.Connect(ctx, args.ConnectionURIs.First())
	if err != nil {
		return RawConfiguration{}, wrapIntrospection(errs.ErrKindConnectionFailed, "failed to connect to database", err)
	}
	defer conn.Close(ctx)

	var tablesJSON, aggregateFunctionsJSON []byte
	row := conn.QueryRow(ctx, configurationQuery, excludedSchemas)
	if err := row.Scan(&tablesJSON, &aggregateFunctionsJSON); err != nil {
		return RawConfiguration{}, wrapIntrospection(errs.ErrKindIntrospection, "introspection query failed", err)
	}

	tables, aggregateFunctions, err := decodeIntrospection(tablesJSON, aggregateFunctionsJSON)
	if err != nil {
		return RawConfiguration{}, err
	}

	nativeQueries := args.Metadata.NativeQueries
	if nativeQueries == nil {
		nativeQueries = metadata.NativeQueries{}
	}

	return RawConfiguration{
		Version:        CurrentVersion,
		ConnectionURIs: args.ConnectionURIs.Canonical(),
		PoolSettings:   args.PoolSettings,
		Metadata: metadata.Metadata{
			Tables:             tables,
			NativeQueries:      nativeQueries,
			AggregateFunctions: aggregateFunctions,
		},
		ExcludedSchemas: excludedSchemas,
	}, nil
}

// decodeIntrospection decodes the two JSON columns of the discovery
// result into metadata.
func decodeIntrospection(tablesJSON, aggregateFunctionsJSON []byte) (metadata.TablesInfo, metadata.AggregateFunctions, error) {
	tables := metadata.TablesInfo{}
	if err := json.Unmarshal(tablesJSON, &tables); err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindDecode, "cannot decode table metadata", err)
	}

	aggregateFunctions := metadata.AggregateFunctions{}
	if err := json.Unmarshal(aggregateFunctionsJSON, &aggregateFunctions); err != nil {
		return nil, nil, errs.Wrap(errs.ErrKindDecode, "cannot decode aggregate function metadata", err)
	}

	return tables, aggregateFunctions, nil
}

// wrapIntrospection wraps a database error, downgrading the kind to
// timeout when the context was cancelled or its deadline passed.
func wrapIntrospection(kind errs.ErrKind, msg string, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, cause)
	}
	return errs.Wrap(kind, msg, cause)
}
