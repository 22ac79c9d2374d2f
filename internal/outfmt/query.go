package outfmt

import (
	"encoding/json"

	"github.com/jmf-tools/jmf-cli/internal/filter"
)

// ApplyQuery converts v to generic JSON values, with top-level lists
// wrapped as {"items": [...]}, and runs the jq query on it. An empty query
// returns the converted value.
func ApplyQuery(v any, query string) (any, error) {
	data, err := json.Marshal(wrapLists(v))
	if err != nil {
		return nil, err
	}
	if query != "" {
		return filter.ApplyFromJSON(data, query)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
