package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cognicore/docnorm/pkg/docnorm/internalerr"
)

// expandInputs resolves glob arguments ("corpus/**/*.xml") to the files they
// match, in sorted order. Plain paths and "-" pass through unchanged.
func expandInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		if arg == "-" || !containsGlob(arg) {
			out = append(out, arg)
			continue
		}

		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w: %v", arg, internalerr.ErrInvalidInput, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("glob %s: %w: no files match", arg, internalerr.ErrNotFound)
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
