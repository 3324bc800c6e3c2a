package configuration

import "encoding/json"

// PoolSettings tunes the query-time connection pool. Elaboration carries
// these through untouched; they only take effect when a pool is built.
type PoolSettings struct {
	// MaxConnections is the maximum number of pool connections.
	MaxConnections uint32 `json:"max_connections"`

	// PoolTimeout is the timeout for acquiring a connection from the
	// pool, in seconds.
	PoolTimeout uint64 `json:"pool_timeout"`

	// IdleTimeout is the idle timeout for releasing a connection from
	// the pool, in seconds.
	IdleTimeout *uint64 `json:"idle_timeout"`

	// ConnectionLifetime is the maximum lifetime for an individual
	// connection, in seconds.
	ConnectionLifetime *uint64 `json:"connection_lifetime"`
}

// DefaultPoolSettings returns the pool defaults. A deployment document
// whose settings equal these serializes without a pool_settings key, so
// regenerated configurations stay diff-stable.
func DefaultPoolSettings() PoolSettings {
	idleTimeout := uint64(180)
	connectionLifetime := uint64(600)
	return PoolSettings{
		MaxConnections:     50,
		PoolTimeout:        30,
		IdleTimeout:        &idleTimeout,
		ConnectionLifetime: &connectionLifetime,
	}
}

// IsDefault reports whether s equals the defaults.
func (s PoolSettings) IsDefault() bool {
	d := DefaultPoolSettings()
	return s.MaxConnections == d.MaxConnections &&
		s.PoolTimeout == d.PoolTimeout &&
		equalOptional(s.IdleTimeout, d.IdleTimeout) &&
		equalOptional(s.ConnectionLifetime, d.ConnectionLifetime)
}

// UnmarshalJSON fills any omitted field with its default, so partial pool
// settings behave the same as fully spelled out ones.
func (s *PoolSettings) UnmarshalJSON(data []byte) error {
	var raw struct {
		MaxConnections     *uint32 `json:"max_connections"`
		PoolTimeout        *uint64 `json:"pool_timeout"`
		IdleTimeout        *uint64 `json:"idle_timeout"`
		ConnectionLifetime *uint64 `json:"connection_lifetime"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = DefaultPoolSettings()
	if raw.MaxConnections != nil {
		s.MaxConnections = *raw.MaxConnections
	}
	if raw.PoolTimeout != nil {
		s.PoolTimeout = *raw.PoolTimeout
	}
	if raw.IdleTimeout != nil {
		s.IdleTimeout = raw.IdleTimeout
	}
	if raw.ConnectionLifetime != nil {
		s.ConnectionLifetime = raw.ConnectionLifetime
	}
	return nil
}

func equalOptional(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
