package outfmt

import (
	"encoding/json"
	"reflect"
)

// asList reports whether v, after following pointers, is a slice or array
// that encodes as a JSON array. Byte slices encode as strings and raw JSON
// is left alone.
func asList(v any) (reflect.Value, bool) {
	switch v.(type) {
	case nil, []byte, json.RawMessage:
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return reflect.Value{}, false
	}
	return rv, rv.Type().Elem().Kind() != reflect.Uint8
}

// wrapLists wraps a top-level list as {"items": [...]} so every JSON
// document is an object. A nil slice becomes an empty list.
func wrapLists(v any) any {
	rv, ok := asList(v)
	if !ok {
		return v
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return map[string]any{"items": []any{}}
	}
	return map[string]any{"items": rv.Interface()}
}

// listItems converts the elements of a list to generic JSON values.
func listItems(v any) ([]any, bool) {
	if _, ok := asList(v); !ok {
		return nil, false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	items := []any{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}
