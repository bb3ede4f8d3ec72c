package cms

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Item is a value inserted by AddItem.
type Item struct {
	Value *yaml.Node
	// Index is the position of the item in a list (int) or its key in a map (string).
	Index any
}

// AddItem inserts a new item into the list or map at h.
//
// The item is seeded from the defaults of the item model's fields. In a list
// its display field (see WithFieldName) is set to name, made unique among the
// display names of the existing items, and the item is appended. In a map name
// is made unique among the existing keys and becomes the item's key.
func (h *Handle) AddItem(name string) (Item, error) {
	if !h.Model.Type.IsCollection() {
		return Item{}, &InvalidNodeTypeError{Path: h.Path, Type: h.Model.Type, Op: "add item"}
	}
	data, err := h.container()
	if err != nil {
		return Item{}, err
	}

	item := newItem(h.Model.Item())
	if h.Model.Type == TypeListObject {
		field := h.tree.fieldName(h.Model)
		unique := UniqueName(name, nameSet(itemNames(data, field)))
		setMappingValue(item, field, stringNode(unique))
		data.Content = append(data.Content, item)
		return Item{Value: item, Index: len(data.Content) - 1}, nil
	}

	key := UniqueName(name, nameSet(mappingKeys(data)))
	setMappingValue(data, key, item)
	return Item{Value: item, Index: key}, nil
}

// AddNode appends a new child of type typ under the tree node at h and returns
// a handle on it.
//
// The child's name is name made unique among the names of the existing
// children. Keys of existing children and data entries count as taken too,
// since the new name also becomes the data key. List and map children get an
// empty item model.
func (h *Handle) AddNode(name string, typ NodeType) (*Handle, error) {
	if !h.Model.IsTree() || h.Container != nil {
		return nil, &InvalidNodeTypeError{Path: h.Path, Type: h.Model.Type, Op: "add node"}
	}
	if !typ.IsContainer() {
		return nil, &InvalidNodeTypeError{Path: h.Path, Type: typ, Op: "create node"}
	}
	data, err := h.container()
	if err != nil {
		return nil, err
	}

	taken := childNames(h.Model)
	for _, c := range h.Model.Children {
		taken = append(taken, c.PathKey())
	}
	taken = append(taken, mappingKeys(data)...)
	unique := UniqueName(name, nameSet(taken))

	child := &Model{Name: unique, Type: typ}
	if typ.IsCollection() {
		child.Children = []*Model{{Type: TypeTree}}
	}
	value := emptyNode(child.dataKind())
	h.Model.Children = append(h.Model.Children, child)
	setMappingValue(data, unique, value)

	steps := make([]dataStep, len(h.steps), len(h.steps)+1)
	copy(steps, h.steps)
	steps = append(steps, dataStep{seg: unique, key: unique, kind: child.dataKind()})
	return &Handle{
		Model: child,
		Data:  value,
		Path:  joinPath(h.Path, unique),
		tree:  h.tree,
		steps: steps,
	}, nil
}

// container returns the data container of h, creating it and any missing
// ancestors first. Nothing is created unless the whole chain can be.
func (h *Handle) container() (*yaml.Node, error) {
	want := h.Model.dataKind()
	if h.Data == nil {
		if err := h.materialize(); err != nil {
			return nil, err
		}
	}
	switch {
	case h.Data.Kind == want:
	case h.Data.Kind == yaml.ScalarNode || h.Data.Kind == yaml.AliasNode:
		resetKind(h.Data, want)
	default:
		return nil, &PathError{Path: h.Path, Err: ErrDataShape}
	}
	return h.Data, nil
}

func (h *Handle) materialize() error {
	// Check first: a missing list slot cannot be created, and every slot
	// below a missing entry is missing too.
	cur := h.tree.Data
	for i, s := range h.steps {
		next := descend(cur, s)
		if next != nil {
			cur = next
			continue
		}
		for _, rest := range h.steps[i:] {
			if rest.isIdx {
				return &NotFoundError{Path: h.Path, Segment: rest.seg}
			}
		}
		if cur.Kind != yaml.MappingNode && cur.Kind != yaml.ScalarNode {
			return &PathError{Path: h.Path, Segment: s.seg, Err: ErrDataShape}
		}
		break
	}

	cur = h.tree.Data
	for _, s := range h.steps {
		next := descend(cur, s)
		if next == nil {
			if cur.Kind != yaml.MappingNode {
				resetKind(cur, yaml.MappingNode)
			}
			next = emptyNode(s.kind)
			setMappingValue(cur, s.key, next)
		}
		cur = next
	}
	h.Data = cur
	return nil
}

// newItem builds an item from the fields of the item model.
func newItem(model *Model) *yaml.Node {
	item := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, f := range model.Children {
		var v *yaml.Node
		switch {
		case f.IsLeaf():
			v = valueNode(f.Default)
		default:
			v = emptyNode(f.dataKind())
		}
		setMappingValue(item, f.PathKey(), v)
	}
	return item
}

func valueNode(v any) *yaml.Node {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return stringNode(fmt.Sprint(v))
	}
	return n
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
