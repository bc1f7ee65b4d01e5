package main

import (
	"path/filepath"

	"golang.org/x/exp/slices"
)

// gatherInputFiles expands the globs into a sorted list without duplicates.
func gatherInputFiles(globs []string) ([]string, error) {
	matched := []string{}
	for _, g := range globs {
		m, err := filepath.Glob(g)
		if err != nil {
			return nil, err
		}
		matched = append(matched, m...)
	}
	slices.Sort(matched)
	return slices.Compact(matched), nil
}

// outputBase is the output path of input without its extension.
func outputBase(dir, input string) string {
	name := filepath.Base(input)
	return filepath.Join(dir, name[:len(name)-len(filepath.Ext(name))])
}
