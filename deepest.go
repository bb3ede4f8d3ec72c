package cms

import "gopkg.in/yaml.v3"

// Deepest is the result of FindDeepest.
type Deepest struct {
	Node  *yaml.Node // deepest mapping reached, the root itself at depth 0
	Depth int        // number of leading segments consumed
}

// FindDeepest walks path through nested mappings of data, ignoring any model,
// and stops at the first segment that is not a key of the current mapping
// holding a mapping. There is no backtracking: later segments are never
// looked at once one misses.
func FindDeepest(data *yaml.Node, path string) Deepest {
	cur := unwrapDocument(data)
	depth := 0
	for _, seg := range splitPath(path) {
		next := mappingValue(cur, seg.name)
		if next == nil || next.Kind != yaml.MappingNode {
			break
		}
		cur = next
		depth++
	}
	return Deepest{Node: cur, Depth: depth}
}

// FillPath creates every missing mapping along path and returns the last one.
// Scalars and sequences in the way are replaced by mappings, keeping their
// comments and anchor. A nil or non-mapping root yields nil.
func FillPath(data *yaml.Node, path string) *yaml.Node {
	cur := unwrapDocument(data)
	if cur == nil || cur.Kind != yaml.MappingNode {
		return nil
	}
	for _, seg := range splitPath(path) {
		found := mappingValue(cur, seg.name)
		if found == nil {
			found = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			setMappingValue(cur, seg.name, found)
		}
		if found.Kind != yaml.MappingNode {
			resetKind(found, yaml.MappingNode)
		}
		cur = found
	}
	return cur
}

func unwrapDocument(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return n.Content[0]
	}
	return n
}

// setMappingValue replaces the value under key, or appends the pair.
func setMappingValue(m *yaml.Node, key string, val *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Kind == yaml.ScalarNode && m.Content[i].Value == key {
			m.Content[i+1] = val
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
}

// resetKind turns n into an empty container of the given kind in place.
func resetKind(n *yaml.Node, kind yaml.Kind) {
	repl := emptyNode(kind)
	repl.HeadComment, repl.LineComment, repl.FootComment = n.HeadComment, n.LineComment, n.FootComment
	repl.Anchor = n.Anchor
	*n = *repl
}

func emptyNode(kind yaml.Kind) *yaml.Node {
	if kind == yaml.SequenceNode {
		return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}
