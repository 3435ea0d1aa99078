package tool

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// SortEnums sorts every string "enum" array inside a schema document so
// forms list choices alphabetically.
func SortEnums(raw json.RawMessage) (json.RawMessage, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding schema")
	}

	sortEnums(doc)

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding schema")
	}
	return b, nil
}

func sortEnums(node interface{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, child := range v {
			if list, ok := child.([]interface{}); ok && key == "enum" {
				sortStrings(list)
				continue
			}
			sortEnums(child)
		}
	case []interface{}:
		for _, child := range v {
			sortEnums(child)
		}
	}
}

// Mixed enums are left as they are.
func sortStrings(list []interface{}) {
	strs := make([]string, len(list))
	for idx, item := range list {
		s, ok := item.(string)
		if !ok {
			return
		}
		strs[idx] = s
	}

	sort.Strings(strs)
	for idx, s := range strs {
		list[idx] = s
	}
}
