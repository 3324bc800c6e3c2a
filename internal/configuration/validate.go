package configuration

import (
	"fmt"
	"strings"
)

// InvalidField is one validation defect, addressed by the JSON path of the
// offending field.
type InvalidField struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationErrors is the exhaustive list of defects found in a raw
// deployment document. Validation never stops at the first problem.
type ValidationErrors []InvalidField

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, f := range e {
		msgs[i] = fmt.Sprintf("%s: %s", f.Path, f.Message)
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Validate checks a raw deployment document and, when it is sound, seals
// it into the Configuration accepted by the rest of the connector.
//
// All defects are collected and reported together so a user can fix a
// broken document in one pass.
func Validate(raw RawConfiguration) (Configuration, error) {
	var problems ValidationErrors

	if raw.Version != CurrentVersion {
		problems = append(problems, InvalidField{
			Path:    "version",
			Message: fmt.Sprintf("invalid configuration version, expected %d, got %d", CurrentVersion, raw.Version),
		})
	}

	if raw.ConnectionURIs.IsEmpty() {
		problems = append(problems, InvalidField{
			Path:    "connection_uris",
			Message: "at least one database uri must be specified",
		})
	}

	if len(problems) > 0 {
		return Configuration{}, problems
	}
	return Configuration{config: raw}, nil
}
