// Package cms navigates and edits the content tree of a CMS document.
//
// A document is two parallel trees: the model (schema) describing every
// position, and the data holding the actual content. Paths are
// slash-separated: segments first match named children of tree nodes, then
// address list indices or map keys inside the data only.
//
//	tree, err := cms.LoadFiles("model.json", "data.json")
//	if err != nil {
//		return err
//	}
//	h, err := tree.FindNode("nav/header")
//	if err != nil {
//		return err
//	}
//	item, err := h.AddItem("Blog") // "Blog (2)" if a Blog link exists
//
// Mutations happen in place on the trees held by the Tree; the caller
// persists them (MarshalData, MarshalModel, SaveFiles) and serializes
// concurrent edits of the same document.
package cms

import "gopkg.in/yaml.v3"

// NodeType tags a model node.
type NodeType string

const (
	// TypeTree is a structural node whose children are addressed by key.
	TypeTree NodeType = "tree"
	// TypeListObject holds an ordered sequence of items sharing one item model.
	TypeListObject NodeType = "list-object"
	// TypeMapObject holds keyed entries sharing one item model.
	TypeMapObject NodeType = "map-object"
)

// IsCollection reports whether t is a list-object or a map-object.
func (t NodeType) IsCollection() bool {
	return t == TypeListObject || t == TypeMapObject
}

// IsContainer reports whether t is one of the three node types AddNode can create.
func (t NodeType) IsContainer() bool {
	return t == TypeTree || t.IsCollection()
}

// Model is one node of the schema tree.
//
// Any type other than the three container types marks a leaf field
// ("string", "markdown", ...). List and map models have exactly one child,
// the item model; the item model's children are the fields of every item.
//
// Attributes without a field of their own are kept in Attrs and written back
// after the known fields, sorted by key.
type Model struct {
	Name      string         `yaml:"name,omitempty"`
	Key       string         `yaml:"key,omitempty"`
	Type      NodeType       `yaml:"type,omitempty"`
	NameField string         `yaml:"nameField,omitempty"`
	Default   any            `yaml:"default,omitempty"`
	Children  []*Model       `yaml:"children,omitempty"`
	Attrs     map[string]any `yaml:",inline"`
}

// PathKey returns the path segment (and data key) addressing m inside its parent.
func (m *Model) PathKey() string {
	if m.Key != "" {
		return m.Key
	}
	return m.Name
}

// IsTree reports whether m is a structural tree node. A model without a
// type but with children counts as a tree.
func (m *Model) IsTree() bool {
	return m.Type == TypeTree || (m.Type == "" && len(m.Children) > 0)
}

// IsLeaf reports whether m is a leaf field.
func (m *Model) IsLeaf() bool {
	return !m.IsTree() && !m.Type.IsCollection()
}

// Child returns the child whose path key equals key, or nil.
func (m *Model) Child(key string) *Model {
	for _, c := range m.Children {
		if c.PathKey() == key {
			return c
		}
	}
	return nil
}

// Item returns the item model of a list or map model. A collection without
// an item model yields an empty tree model so callers never see nil.
func (m *Model) Item() *Model {
	if len(m.Children) > 0 {
		return m.Children[0]
	}
	return &Model{Type: TypeTree}
}

// dataKind is the YAML node kind holding the data of m.
func (m *Model) dataKind() yaml.Kind {
	if m.Type == TypeListObject {
		return yaml.SequenceNode
	}
	return yaml.MappingNode
}

// FieldNameFunc returns the key of the field holding the display name of the
// items of a list model.
type FieldNameFunc func(list *Model) string

// DefaultFieldName is the FieldNameFunc used unless WithFieldName overrides
// it: the list's NameField, else the item model's NameField, else the key of
// the item model's first leaf field, else "name".
func DefaultFieldName(list *Model) string {
	if list.NameField != "" {
		return list.NameField
	}
	item := list.Item()
	if item.NameField != "" {
		return item.NameField
	}
	for _, f := range item.Children {
		if f.IsLeaf() {
			return f.PathKey()
		}
	}
	return "name"
}
