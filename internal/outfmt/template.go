package outfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"text/template"
	"time"
)

// templateFuncs are available to --template besides the builtins.
var templateFuncs = template.FuncMap{
	// json renders a value as compact JSON.
	"json": func(v any) (string, error) {
		var buf bytes.Buffer
		if err := encode(&buf, v, true); err != nil {
			return "", err
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
	},
	// unix renders unix seconds as a local date and time; API timestamps
	// arrive as JSON numbers.
	"unix": func(v any) string {
		switch n := v.(type) {
		case float64:
			return time.Unix(int64(n), 0).Format(time.DateTime)
		case json.Number:
			if sec, err := n.Int64(); err == nil {
				return time.Unix(sec, 0).Format(time.DateTime)
			}
		case int64:
			return time.Unix(n, 0).Format(time.DateTime)
		}
		return fmt.Sprint(v)
	},
}

// WriteTemplate renders v with a text/template. Missing keys render as
// zero values.
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return templateError("invalid template", err)
	}
	if err := t.Execute(w, v); err != nil {
		return templateError("template execution error", err)
	}
	return nil
}

var templatePosition = regexp.MustCompile(`output:(\d+)(?::(\d+))?:`)

// templateError prefixes err with kind and the position text/template
// reports, if any.
func templateError(kind string, err error) error {
	m := templatePosition.FindStringSubmatch(err.Error())
	switch {
	case m == nil:
		return fmt.Errorf("%s: %w", kind, err)
	case m[2] == "":
		return fmt.Errorf("%s at line %s: %w", kind, m[1], err)
	}
	return fmt.Errorf("%s at line %s, column %s: %w", kind, m[1], m[2], err)
}
