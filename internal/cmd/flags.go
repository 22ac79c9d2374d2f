package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmf-tools/jmf-cli/internal/cache"
)

// jqQuery returns --jq, falling back to its older spelling --query.
func jqQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}

const aliasOfAnnotation = "alias-of"

// aliasValue forwards Set to the canonical flag's value and marks that flag
// as changed, so Changed checks on the canonical name see the alias.
type aliasValue struct {
	pflag.Value
	target *pflag.Flag
}

func (v *aliasValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.target.Changed = true
	return nil
}

// flagAlias adds alias as a hidden second name for the flag name. It panics
// when name is not defined, which is a programming error.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	target := fs.Lookup(name)
	if target == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	fs.AddFlag(&pflag.Flag{
		Name:        alias,
		Usage:       target.Usage,
		Value:       &aliasValue{Value: target.Value, target: target},
		DefValue:    target.DefValue,
		NoOptDefVal: target.NoOptDefVal,
		Hidden:      true,
		Annotations: map[string][]string{aliasOfAnnotation: {name}},
	})
}

// flagOrAliasChanged reports whether the user set the named flag under its
// own name or one of its aliases.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	for _, fs := range []*pflag.FlagSet{cmd.Flags(), cmd.InheritedFlags()} {
		if fs.Changed(name) {
			return true
		}
		changed := false
		fs.VisitAll(func(f *pflag.Flag) {
			if of := f.Annotations[aliasOfAnnotation]; f.Changed && len(of) > 0 && of[0] == name {
				changed = true
			}
		})
		if changed {
			return true
		}
	}
	return false
}

// parseKeyValue splits a key=value field.
func parseKeyValue(field string) (string, string, error) {
	key, value, ok := strings.Cut(field, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid field format %q: must be key=value", field)
	}
	return key, value, nil
}

// scalarValue turns a field value into an int, a bool or a string.
func scalarValue(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// resolveCacheDir honours JMF_CACHE_DIR, then the user cache directory.
func resolveCacheDir() string {
	if dir := os.Getenv("JMF_CACHE_DIR"); dir != "" {
		return dir
	}
	dir, _ := cache.DefaultDir()
	return dir
}
