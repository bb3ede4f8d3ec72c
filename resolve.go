package cms

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// PathSeparator separates the segments of a content path.
const PathSeparator = '/'

// Handle is a transient view of one position of a Tree. It does not own the
// trees; mutations through it change them in place.
type Handle struct {
	// Model describes the addressed position. Inside a list or map it is the
	// item model, for any depth of further segments.
	Model *Model
	// Container is the list or map model the position belongs to, nil on
	// purely structural paths.
	Container *Model
	// Data is the content at the position, nil when not populated yet.
	Data *yaml.Node
	// Path is the path the handle was resolved from.
	Path string

	tree  *Tree
	steps []dataStep
}

// dataStep is one descent of the data cursor from the root.
type dataStep struct {
	seg   string
	key   string
	index int
	isIdx bool
	kind  yaml.Kind // kind of the node this step leads to when created
}

// FindNode resolves path against the model and data trees in lockstep.
//
// Segments match child keys while the model is a tree node; a segment
// matching no child is an error. Once a list or map model is reached the
// model stays on its item model and remaining segments address the data
// only. Missing data is never an error: Data is nil from the first slot that
// does not exist.
func (t *Tree) FindNode(path string) (*Handle, error) {
	h := &Handle{Model: t.Model, Data: t.Data, Path: path, tree: t}
	for _, seg := range splitPath(path) {
		switch {
		case h.Container != nil || h.Model.IsLeaf():
			s := dataStepFor(h.Data, seg.name)
			h.Data = descend(h.Data, s)
			h.steps = append(h.steps, s)

		case h.Model.Type.IsCollection():
			s := dataStep{seg: seg.name, key: seg.name}
			if h.Model.Type == TypeListObject {
				s.isIdx = true
				s.index = listIndex(seg.name)
			}
			h.Container = h.Model
			h.Model = h.Model.Item()
			s.kind = h.Model.dataKind()
			h.Data = descend(h.Data, s)
			h.steps = append(h.steps, s)

		default:
			child := h.Model.Child(seg.name)
			if child == nil {
				return nil, &NotFoundError{Path: path, Segment: seg.name}
			}
			s := dataStep{seg: seg.name, key: seg.name, kind: child.dataKind()}
			h.Model = child
			h.Data = descend(h.Data, s)
			h.steps = append(h.steps, s)
		}
	}
	return h, nil
}

// PathIndex splits a path into its structural part and a trailing list index
// or map key.
type PathIndex struct {
	FullPath string
	TreePath string
	// Index is an int for a list item, a string for a map entry and -1 when
	// the path is purely structural.
	Index any
}

// TreePathAndIndex walks the structural prefix of path and returns it with
// the single segment following the first list or map node. More than one
// segment after that node is rejected with ErrTrailingSegments; nested lists
// are addressed with FindNode instead.
func (t *Tree) TreePathAndIndex(path string) (PathIndex, error) {
	segs := splitPath(path)
	model := t.Model
	treeEnd := 0
	for i, seg := range segs {
		if model.Type.IsCollection() {
			if i+1 < len(segs) {
				return PathIndex{}, &PathError{Path: path, Segment: segs[i+1].name, Err: ErrTrailingSegments}
			}
			res := PathIndex{FullPath: path, TreePath: path[:treeEnd], Index: seg.name}
			if model.Type == TypeListObject {
				n, err := strconv.Atoi(seg.name)
				if err != nil || n < 0 {
					return PathIndex{}, &PathError{Path: path, Segment: seg.name, Err: ErrBadIndex}
				}
				res.Index = n
			}
			return res, nil
		}
		if model.IsLeaf() {
			return PathIndex{}, &PathError{Path: path, Segment: seg.name, Err: ErrTrailingSegments}
		}
		child := model.Child(seg.name)
		if child == nil {
			return PathIndex{}, &NotFoundError{Path: path, Segment: seg.name}
		}
		model = child
		treeEnd = seg.end
	}
	return PathIndex{FullPath: path, TreePath: path, Index: -1}, nil
}

type segment struct {
	name string
	end  int // offset just past the segment in the path
}

// splitPath splits a path into non-empty segments.
func splitPath(path string) []segment {
	segs := make([]segment, 0)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == PathSeparator {
			if i > start {
				segs = append(segs, segment{name: path[start:i], end: i})
			}
			start = i + 1
		}
	}
	return segs
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + string(PathSeparator) + name
}

// listIndex parses a list segment; anything but a non-negative integer is -1
// and addresses no slot.
func listIndex(seg string) int {
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// dataStepFor builds the step for a segment below the model, following the
// shape of the data itself.
func dataStepFor(data *yaml.Node, seg string) dataStep {
	s := dataStep{seg: seg, key: seg, kind: yaml.MappingNode}
	if data != nil && data.Kind == yaml.SequenceNode {
		s.isIdx = true
		s.index = listIndex(seg)
	}
	return s
}

func descend(data *yaml.Node, s dataStep) *yaml.Node {
	if data == nil {
		return nil
	}
	if s.isIdx {
		if data.Kind != yaml.SequenceNode || s.index < 0 || s.index >= len(data.Content) {
			return nil
		}
		return data.Content[s.index]
	}
	return mappingValue(data, s.key)
}

// mappingValue returns the value stored under key in a mapping node, or nil.
func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Kind == yaml.ScalarNode && n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}
