package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmf-tools/jmf-cli/internal/api"
	"github.com/jmf-tools/jmf-cli/internal/dryrun"
	"github.com/jmf-tools/jmf-cli/internal/iocontext"
)

func newAPICmd() *cobra.Command {
	var (
		method    string
		fields    []string
		rawFields []string
		inputFile string
		jsonBody  string
		silent    bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:     "api <endpoint>",
		Aliases: []string{"ap"},
		Short:   "Make raw requests to any API endpoint",
		Long: `Make a raw request to any endpoint of the API and print the envelope data.

The endpoint is relative to the API prefix: "/v1/status" requests
<base-url>/api/v1/status. For GET requests, fields become query arguments;
for other methods they form the JSON body.

Envelope failures are reported like any other command: exit code 3 for API
errors, 2 for rejected arguments.`,
		Example: `  # GET with query arguments
  jmf api /v1/users/name-autocomplete -f name_part=初心 -f limit=5

  # Raw JSON values
  jmf api /v1/users/ea36c8d8aa30/lottery-win-records -F 'excluded_awards=["收益加成卡 100"]'

  # Inline JSON body
  jmf api /v1/some/endpoint -X POST -d '{"key":"value"}'

  # Filter with jq
  jmf api /v1/status --jq '.version'

  # Show the request without sending it
  jmf api /v1/some/endpoint -X POST -f key=value --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			method = strings.ToUpper(method)
			switch method {
			case "GET", "POST", "PUT", "PATCH", "DELETE":
			default:
				return fmt.Errorf("invalid HTTP method %q: must be one of GET, POST, PUT, PATCH, DELETE", method)
			}
			if jsonBody != "" && inputFile != "" {
				return fmt.Errorf("cannot use both --body and --input flags")
			}
			params, err := buildRequestParams(fields, rawFields, inputFile, jsonBody, iocontext.GetIO(cmd.Context()).In)
			if err != nil {
				return err
			}

			req := api.Request{Method: method, Endpoint: args[0]}
			if method == "GET" {
				req.Query = params
			} else {
				req.Body = params
			}

			if dryRun {
				return previewRequest(cmd, req, silent)
			}

			rt, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			raw, err := trigger[json.RawMessage](cmd, rt, req)
			if err != nil {
				return err
			}
			if silent {
				return nil
			}
			if len(raw) == 0 || string(raw) == "null" {
				return nil
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out, string(raw))
				return nil
			}
			return printJSON(cmd, v)
		}),
	}

	cmd.Flags().StringVarP(&method, "method", "X", "GET", "HTTP method (GET, POST, PUT, PATCH, DELETE)")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "Field as key=value (numbers and booleans are converted)")
	cmd.Flags().StringArrayVarP(&rawFields, "raw-field", "F", nil, "Field as key=value with a JSON value")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read fields from a JSON object file (use - for stdin)")
	cmd.Flags().StringVarP(&jsonBody, "body", "d", "", "Fields as an inline JSON object")
	cmd.Flags().BoolVarP(&silent, "silent", "s", false, "Suppress output")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the request instead of sending it")
	return cmd
}

func previewRequest(cmd *cobra.Command, req api.Request, silent bool) error {
	body, err := api.BuildBody(req.Body)
	if err != nil {
		return err
	}
	preview := dryrun.New(req.Method, api.BuildURL(configFromContext(cmd.Context()).BaseURL, req.Endpoint, req.Query), body)
	if silent {
		preview.Warn("--silent has no effect with --dry-run")
	}
	if structured(cmd) {
		return printJSON(cmd, preview)
	}
	preview.Write(iocontext.GetIO(cmd.Context()).Out)
	return nil
}

// buildRequestParams merges --body or --input with -f and -F fields. Fields
// win over the JSON object. No fields at all yields nil.
func buildRequestParams(fields, rawFields []string, inputFile, jsonBody string, stdin io.Reader) (api.Params, error) {
	params := api.Params{}

	if jsonBody != "" {
		if err := json.Unmarshal([]byte(jsonBody), &params); err != nil {
			return nil, fmt.Errorf("failed to parse --body JSON: %w", err)
		}
	}

	if inputFile != "" {
		var (
			input []byte
			err   error
		)
		if inputFile == "-" {
			input, err = io.ReadAll(stdin)
		} else {
			input, err = os.ReadFile(inputFile)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		if err := json.Unmarshal(input, &params); err != nil {
			return nil, fmt.Errorf("failed to parse input JSON: %w", err)
		}
	}

	for _, field := range fields {
		key, value, err := parseKeyValue(field)
		if err != nil {
			return nil, err
		}
		params[key] = scalarValue(value)
	}

	for _, field := range rawFields {
		key, value, err := parseRawField(field)
		if err != nil {
			return nil, err
		}
		params[key] = value
	}

	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

// parseRawField parses a key=value field where value is JSON.
func parseRawField(field string) (string, any, error) {
	key, raw, err := parseKeyValue(field)
	if err != nil {
		return "", nil, err
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid JSON in raw field %q: %w", key, err)
	}
	return key, value, nil
}
