package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// DefaultTimeout is applied to a request that does not set its own.
const DefaultTimeout = 5 * time.Second

// apiPrefix is inserted between the base URL and every endpoint.
const apiPrefix = "/api"

// Params maps request field names to scalar, slice-of-scalar, or nil values.
// Nil values (including nil pointers, slices and maps) are dropped.
type Params map[string]any

// Request describes a single call against the API. It is built fresh for every
// call; nothing in it is retained by the executor.
type Request struct {
	Method   string
	Endpoint string
	// Query is used for GET requests only.
	Query Params
	// Body is used for POST, PUT, PATCH and DELETE requests only.
	Body Params
	// Timeout aborts the call once elapsed. Zero means the client default.
	Timeout time.Duration
	// Loading, when set, makes the call single-flight for whoever owns the flag.
	Loading *LoadingFlag
}

// Get returns a GET request for endpoint with the given query arguments.
func Get(endpoint string, query Params) Request {
	return Request{Method: http.MethodGet, Endpoint: endpoint, Query: query}
}

// validMethod reports whether method is one the API accepts.
func validMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Key returns a stable identity for the request. Two requests with the same
// method, endpoint and effective parameters share a key.
func (r Request) Key() string {
	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	b.WriteString(normalizeEndpoint(r.Endpoint))
	if method == http.MethodGet {
		if q := EncodeQuery(r.Query); q != "" {
			b.WriteByte('?')
			b.WriteString(q)
		}
		return b.String()
	}
	if body, err := BuildBody(r.Body); err == nil && body != nil {
		b.WriteByte(' ')
		b.Write(body)
	}
	return b.String()
}

func normalizeEndpoint(endpoint string) string {
	if endpoint != "" && endpoint[0] != '/' {
		return "/" + endpoint
	}
	return endpoint
}

// BuildURL joins base, the API prefix, endpoint and the encoded query string.
func BuildURL(base, endpoint string, query Params) string {
	u := strings.TrimRight(base, "/") + apiPrefix + normalizeEndpoint(endpoint)
	if q := EncodeQuery(query); q != "" {
		u += "?" + q
	}
	return u
}

// EncodeQuery encodes params as a query string. Slice values repeat the key
// once per element; nil values are omitted. Keys are sorted.
func EncodeQuery(params Params) string {
	if len(params) == 0 {
		return ""
	}
	values := url.Values{}
	for key, value := range params {
		if isNil(value) {
			continue
		}
		rv := reflect.ValueOf(value)
		for rv.Kind() == reflect.Pointer && !rv.IsNil() {
			rv = rv.Elem()
		}
		if rv.Kind() == reflect.Pointer {
			continue
		}
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				elem := rv.Index(i).Interface()
				if isNil(elem) {
					continue
				}
				values.Add(key, scalarString(elem))
			}
			continue
		}
		values.Add(key, scalarString(rv.Interface()))
	}
	return values.Encode()
}

// BuildBody drops nil fields from params and encodes the rest as JSON.
// A nil params map yields a nil body.
func BuildBody(params Params) ([]byte, error) {
	if params == nil {
		return nil, nil
	}
	filtered := make(map[string]any, len(params))
	for key, value := range params {
		if isNil(value) {
			continue
		}
		filtered[key] = value
	}
	body, err := json.Marshal(filtered)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return body, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

func scalarString(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	switch x := rv.Interface().(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
