package configuration

import (
	"encoding/json"
	"fmt"
)

// ConnectionURI is one resolved connection string. In the deployment
// document it may be written either as a bare string or as a
// `{"value": "..."}` wrapper, the latter being the shape left behind when
// an external secret reference has been resolved. Internally both collapse
// to the resolved string, and the canonical serialized form is the bare
// string.
type ConnectionURI struct {
	value string
}

// URI constructs a ConnectionURI from a resolved connection string.
func URI(value string) ConnectionURI {
	return ConnectionURI{value: value}
}

// String returns the resolved connection string.
func (u ConnectionURI) String() string {
	return u.value
}

func (u ConnectionURI) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value)
}

func (u *ConnectionURI) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		u.value = literal
		return nil
	}

	var wrapped struct {
		Value *string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil || wrapped.Value == nil {
		return fmt.Errorf("connection uri must be a string or {\"value\": ...}")
	}
	u.value = *wrapped.Value
	return nil
}

// ConnectionURIs holds the configured connection endpoints: either a single
// value or a list, preserved as written so a round-trip does not reformat
// the document. All consumers go through AsSlice or First; nothing outside
// the marshaling code branches on which variant was used.
type ConnectionURIs struct {
	single bool
	uris   []ConnectionURI
}

// SingleURI wraps one connection string in the single-value variant.
func SingleURI(uri string) ConnectionURIs {
	return ConnectionURIs{single: true, uris: []ConnectionURI{URI(uri)}}
}

// URIList wraps connection strings in the list variant.
func URIList(uris ...string) ConnectionURIs {
	list := make([]ConnectionURI, len(uris))
	for i, u := range uris {
		list[i] = URI(u)
	}
	return ConnectionURIs{uris: list}
}

// AsSlice returns the endpoints as an ordered sequence, regardless of
// which variant was configured.
func (u ConnectionURIs) AsSlice() []ConnectionURI {
	return u.uris
}

// IsEmpty reports whether no endpoint is configured.
func (u ConnectionURIs) IsEmpty() bool {
	return len(u.uris) == 0
}

// First selects the connection endpoint to use.
//
// We always pick the first one. Eventually this is where load-balancing
// across read replicas would plug in; until then the choice is fixed and
// never rotated. Callers must have validated non-emptiness first.
func (u ConnectionURIs) First() string {
	return u.uris[0].value
}

// Canonical returns the same endpoints in the list variant, which is the
// form elaboration emits.
func (u ConnectionURIs) Canonical() ConnectionURIs {
	return ConnectionURIs{uris: u.uris}
}

func (u ConnectionURIs) MarshalJSON() ([]byte, error) {
	if u.single {
		return json.Marshal(u.uris[0])
	}
	if u.uris == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(u.uris)
}

func (u *ConnectionURIs) UnmarshalJSON(data []byte) error {
	var list []ConnectionURI
	if err := json.Unmarshal(data, &list); err == nil {
		*u = ConnectionURIs{uris: list}
		return nil
	}

	var one ConnectionURI
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("connection_uris: %w", err)
	}
	*u = ConnectionURIs{single: true, uris: []ConnectionURI{one}}
	return nil
}
