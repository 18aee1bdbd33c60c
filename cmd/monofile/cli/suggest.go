// Copyright 2026 The Monofile Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/spf13/pflag"
)

// maxSuggestionDistance bounds how far a typo may be from the name it
// is corrected to.
const maxSuggestionDistance = 3

// suggestCommand maps a mistyped subcommand to the command it most
// likely meant. Aliases count as spellings of their command.
func suggestCommand(unknown string, commands []*Command) string {
	owner := make(map[string]string)
	var spellings []string
	for _, command := range commands {
		for _, spelling := range append([]string{command.Name}, command.Aliases...) {
			if _, seen := owner[spelling]; !seen {
				owner[spelling] = command.Name
				spellings = append(spellings, spelling)
			}
		}
	}
	if match := closest(unknown, spellings); match != "" {
		return owner[match]
	}
	return ""
}

// suggestFlag returns "--name" for the defined flag nearest to the first
// flag in args that flagSet does not know. Arguments after "--" are
// operands and are not considered.
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	unknown, found := firstUnknownFlag(args, flagSet)
	if !found {
		return ""
	}
	var names []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	if match := closest(unknown, names); match != "" {
		return "--" + match
	}
	return ""
}

func firstUnknownFlag(args []string, flagSet *pflag.FlagSet) (string, bool) {
	for _, arg := range args {
		if arg == "--" {
			return "", false
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if flagSet.Lookup(name) != nil {
			continue
		}
		if len(name) == 1 && flagSet.ShorthandLookup(name) != nil {
			continue
		}
		return name, true
	}
	return "", false
}

// closest returns the candidate with the smallest edit distance to
// name, or "" when none is within maxSuggestionDistance. Ties go to the
// earlier candidate.
func closest(name string, candidates []string) string {
	best, bestDistance := "", maxSuggestionDistance+1
	for _, candidate := range candidates {
		if distance := levenshtein(name, candidate); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// levenshtein is the byte-wise edit distance between a and b, counting
// insertions, deletions and substitutions.
func levenshtein(a, b string) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	// row[j] holds the distance between the current prefix of a and b[:j].
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diagonal := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			above := row[j]
			if a[i-1] == b[j-1] {
				row[j] = diagonal
			} else {
				row[j] = 1 + min(diagonal, above, row[j-1])
			}
			diagonal = above
		}
	}
	return row[len(b)]
}
