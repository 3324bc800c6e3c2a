// Package configuration models the connector's deployment document: the
// raw user-authored form, its validation into the only shape downstream
// code accepts, and its elaboration against a live database.
//
// A RawConfiguration comes either from a deployment file or from
// Configure; a Configuration is built exactly once per running instance,
// via Validate, and is immutable for its lifetime. Sharing it across
// request-handling goroutines needs no locking.
package configuration

import (
	"encoding/json"

	"github.com/soorajshankar/ndc-postgres/internal/metadata"
)

// CurrentVersion is the only supported deployment document version.
const CurrentVersion uint32 = 1

// RawConfiguration is the user-facing deployment document: just enough to
// connect to a database, plus everything elaboration has discovered so far.
type RawConfiguration struct {
	// Version of the configuration format; must equal CurrentVersion.
	Version uint32 `json:"version"`

	// ConnectionURIs for a Postgres-compatible database.
	ConnectionURIs ConnectionURIs `json:"connection_uris"`

	// PoolSettings for the query-time connection pool. Omitted from the
	// serialized form when equal to the defaults.
	PoolSettings PoolSettings `json:"pool_settings"`

	// Metadata discovered from the database plus user-declared native
	// queries.
	Metadata metadata.Metadata `json:"metadata"`

	// ExcludedSchemas are skipped during introspection. The default list
	// covers the internal schemas of Postgres, Citus, Cockroach, and the
	// PostGIS extension.
	ExcludedSchemas []string `json:"excluded_schemas"`
}

// DefaultExcludedSchemas returns the schemas introspection skips unless
// the deployment document says otherwise.
func DefaultExcludedSchemas() []string {
	return []string{
		// From Postgres itself
		"information_schema",
		"pg_catalog",
		// From PostGIS
		"tiger",
		// From CockroachDB
		"crdb_internal",
		// From Citus
		"columnar",
		"columnar_internal",
	}
}

// Empty returns the template deployment document a user starts from.
func Empty() RawConfiguration {
	return RawConfiguration{
		Version:         CurrentVersion,
		ConnectionURIs:  URIList(),
		PoolSettings:    DefaultPoolSettings(),
		Metadata:        metadata.Empty(),
		ExcludedSchemas: DefaultExcludedSchemas(),
	}
}

// rawConfigurationJSON is the serialization shape of RawConfiguration;
// the pointer fields let defaults apply on input and default values drop
// out on output.
type rawConfigurationJSON struct {
	Version         uint32             `json:"version"`
	ConnectionURIs  ConnectionURIs     `json:"connection_uris"`
	PoolSettings    *PoolSettings      `json:"pool_settings,omitempty"`
	Metadata        *metadata.Metadata `json:"metadata,omitempty"`
	ExcludedSchemas []string           `json:"excluded_schemas,omitempty"`
}

func (c RawConfiguration) MarshalJSON() ([]byte, error) {
	out := rawConfigurationJSON{
		Version:         c.Version,
		ConnectionURIs:  c.ConnectionURIs,
		ExcludedSchemas: c.ExcludedSchemas,
	}
	if !c.PoolSettings.IsDefault() {
		settings := c.PoolSettings
		out.PoolSettings = &settings
	}
	md := c.Metadata
	out.Metadata = &md
	return json.Marshal(out)
}

func (c *RawConfiguration) UnmarshalJSON(data []byte) error {
	var raw rawConfigurationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = RawConfiguration{
		Version:         raw.Version,
		ConnectionURIs:  raw.ConnectionURIs,
		PoolSettings:    DefaultPoolSettings(),
		Metadata:        metadata.Empty(),
		ExcludedSchemas: DefaultExcludedSchemas(),
	}
	if raw.PoolSettings != nil {
		c.PoolSettings = *raw.PoolSettings
	}
	if raw.Metadata != nil {
		c.Metadata = *raw.Metadata
	}
	if raw.ExcludedSchemas != nil {
		c.ExcludedSchemas = raw.ExcludedSchemas
	}
	return nil
}

// Configuration is the validated deployment document, the only form
// accepted downstream. Construct it exclusively through Validate.
type Configuration struct {
	config RawConfiguration
}

// Config returns the underlying raw document. Callers must treat it as
// read-only.
func (c Configuration) Config() RawConfiguration {
	return c.config
}
