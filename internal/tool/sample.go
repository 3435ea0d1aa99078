package tool

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/ryanolee/go-chaff"
)

var ErrNoSchema = errors.New("tool has no parameter schema")

// SampleParams generates n parameter sets from the tool's schema.
// Non-string values are JSON encoded since parameters travel as strings.
func SampleParams(t Tool, n int) ([]map[string]string, error) {
	if len(t.Schema) == 0 {
		return nil, ErrNoSchema
	}

	generator, err := chaff.ParseSchema(t.Schema, &chaff.ParserOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "parsing schema")
	}

	samples := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		result := generator.Generate(&chaff.GeneratorOptions{})

		obj, ok := result.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("schema generates %T, not an object", result)
		}

		params, err := stringify(obj)
		if err != nil {
			return nil, err
		}
		samples = append(samples, params)
	}

	return samples, nil
}

func stringify(obj map[string]interface{}) (map[string]string, error) {
	params := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			params[k] = val
		case nil:
			params[k] = ""
		case bool, float64, int, int64:
			params[k] = fmt.Sprint(val)
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return nil, errors.Wrapf(err, "encoding %s", k)
			}
			params[k] = string(b)
		}
	}
	return params, nil
}
