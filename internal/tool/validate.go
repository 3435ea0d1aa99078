package tool

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

type ValidationError struct {
	Tool     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid parameters for " + e.Tool + ": " + strings.Join(e.Problems, "; ")
}

// ValidateParams checks params against the tool's JSON schema.
// A tool without schema accepts anything.
func ValidateParams(t Tool, params map[string]string) error {
	if len(t.Schema) == 0 {
		return nil
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(t.Schema))
	if err != nil {
		return errors.Wrap(err, "creating schema")
	}

	if params == nil {
		params = map[string]string{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(params))
	if err != nil {
		return errors.Wrap(err, "validating params")
	}

	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for idx, err := range result.Errors() {
			problems[idx] = err.String()
		}

		return &ValidationError{Tool: t.Name, Problems: problems}
	}

	return nil
}
