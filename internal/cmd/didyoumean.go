package cmd

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)
	unknownFlagPattern    = regexp.MustCompile(`unknown flag: (--[^\s=]+)`)
)

// explainUnknown returns err's message with a suggestion appended when cobra
// rejected a command or flag name. at is the command cobra resolved.
func explainUnknown(err error, at *cobra.Command) string {
	msg := err.Error()
	if at == nil {
		return msg
	}
	if m := unknownCommandPattern.FindStringSubmatch(msg); m != nil {
		if s := closest(m[1], commandNames(at)); s != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?", msg, s)
		}
		return msg
	}
	if !strings.Contains(msg, "unknown flag") && !strings.Contains(msg, "unknown shorthand flag") {
		return msg
	}
	help := fmt.Sprintf("Run %q to see supported flags.", at.CommandPath()+" --help")
	if m := unknownFlagPattern.FindStringSubmatch(msg); m != nil {
		if s := closest(m[1], flagNames(at)); s != "" {
			return fmt.Sprintf("%s\n\nDid you mean %q?\n%s", msg, s, help)
		}
	}
	return msg + "\n\n" + help
}

func commandNames(parent *cobra.Command) []string {
	var names []string
	for _, c := range parent.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
			names = append(names, c.Aliases...)
		}
	}
	return names
}

// flagNames lists the visible local and inherited flags of c as "--name".
func flagNames(c *cobra.Command) []string {
	set := map[string]struct{}{}
	collect := func(f *pflag.Flag) {
		if !f.Hidden {
			set["--"+f.Name] = struct{}{}
		}
	}
	c.Flags().VisitAll(collect)
	c.InheritedFlags().VisitAll(collect)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// editDistance is the Levenshtein distance between a and b, counted in
// runes so user and article names compare by character.
func editDistance(a, b string) int {
	s, t := []rune(a), []rune(b)
	if len(s) < len(t) {
		s, t = t, s
	}
	prev := make([]int, len(t)+1)
	cur := make([]int, len(t)+1)
	for j := range prev {
		prev[j] = j
	}
	for i, sr := range s {
		cur[0] = i + 1
		for j, tr := range t {
			sub := prev[j]
			if sr != tr {
				sub++
			}
			cur[j+1] = min(prev[j+1]+1, cur[j]+1, sub)
		}
		prev, cur = cur, prev
	}
	return prev[len(t)]
}

// closest picks the candidate nearest to unknown, ignoring case and leading
// dashes. Short inputs tolerate fewer edits; nothing is suggested beyond
// three. The candidate is returned as given.
func closest(unknown string, candidates []string) string {
	target := suggestKey(unknown)
	if target == "" {
		return ""
	}
	limit := min(3, (len([]rune(target))+1)/2)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := editDistance(target, suggestKey(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func suggestKey(s string) string {
	return strings.ToLower(strings.TrimLeft(s, "-"))
}
