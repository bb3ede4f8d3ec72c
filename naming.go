package cms

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// UniqueName returns name if it is free, otherwise the first free candidate
// of "name (2)", "name (3)", ... in increasing order. exists must describe a
// finite collection.
func UniqueName(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	for i := 2; ; i++ {
		candidate := name + " (" + strconv.Itoa(i) + ")"
		if !exists(candidate) {
			return candidate
		}
	}
}

// nameSet snapshots names into a membership test.
func nameSet(names []string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(s string) bool {
		_, ok := set[s]
		return ok
	}
}

// itemNames returns the value of field for every mapping item of a sequence.
func itemNames(seq *yaml.Node, field string) []string {
	names := make([]string, 0, len(seq.Content))
	for _, item := range seq.Content {
		if v := mappingValue(item, field); v != nil && v.Kind == yaml.ScalarNode {
			names = append(names, v.Value)
		}
	}
	return names
}

// mappingKeys returns the keys of a mapping node in order.
func mappingKeys(m *yaml.Node) []string {
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// childNames returns the display names of the children of m.
func childNames(m *Model) []string {
	names := make([]string, 0, len(m.Children))
	for _, c := range m.Children {
		names = append(names, c.Name)
	}
	return names
}
