package cms

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tree pairs a model tree with its data tree.
type Tree struct {
	Model *Model
	Data  *yaml.Node // root mapping of the content

	dataDoc   *yaml.Node // document wrapping Data, keeps head/foot comments
	fieldName FieldNameFunc
	modelFmt  docFormat
	dataFmt   docFormat
}

// Option configures a Tree.
type Option func(*Tree)

// WithFieldName sets the accessor naming the display field of list items.
// A nil fn restores DefaultFieldName.
func WithFieldName(fn FieldNameFunc) Option {
	return func(t *Tree) {
		if fn == nil {
			fn = DefaultFieldName
		}
		t.fieldName = fn
	}
}

// docFormat remembers how a document was written so it can be re-emitted alike.
type docFormat struct {
	json      bool
	tabs      bool // JSON indented with tabs
	indent    int
	indentSeq bool // YAML sequences under a key are indented
}

// New builds a Tree from already decoded trees. A nil data becomes an empty mapping.
func New(model *Model, data *yaml.Node, opts ...Option) (*Tree, error) {
	if model == nil {
		return nil, fmt.Errorf("cms: nil model")
	}
	if data == nil {
		data = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	if data.Kind == yaml.DocumentNode {
		if len(data.Content) == 0 {
			data.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
		}
		return newTree(model, data, opts)
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{data}}
	return newTree(model, doc, opts)
}

func newTree(model *Model, doc *yaml.Node, opts []Option) (*Tree, error) {
	if doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("cms: top-level data is not a mapping")
	}
	t := &Tree{
		Model:     model,
		Data:      doc.Content[0],
		dataDoc:   doc,
		fieldName: DefaultFieldName,
		modelFmt:  docFormat{json: true, indent: 2, indentSeq: true},
		dataFmt:   docFormat{json: true, indent: 2, indentSeq: true},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Load parses a model and a data document. Both may be JSON or YAML; empty
// data yields an empty mapping. The source format and indentation of each
// document are kept for MarshalModel and MarshalData.
func Load(model, data []byte, opts ...Option) (*Tree, error) {
	m, err := parseModel(model)
	if err != nil {
		return nil, err
	}

	doc := &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
	if len(bytes.TrimSpace(data)) > 0 {
		var tmp yaml.Node
		if err := yaml.Unmarshal(data, &tmp); err != nil {
			return nil, fmt.Errorf("cms: failed to parse data: %w", err)
		}
		if tmp.Kind != yaml.DocumentNode || len(tmp.Content) == 0 || tmp.Content[0].Kind != yaml.MappingNode {
			return nil, fmt.Errorf("cms: top-level data is not a mapping")
		}
		doc = &tmp
	}

	t, err := newTree(m, doc, opts)
	if err != nil {
		return nil, err
	}
	t.modelFmt = detectFormat(model)
	t.dataFmt = detectFormat(data)
	if t.dataFmt.json {
		clearStyle(doc)
	}
	return t, nil
}

func parseModel(b []byte) (*Model, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("cms: empty model")
	}
	var m Model
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("cms: failed to parse model: %w", err)
	}
	return &m, nil
}

// LoadFiles reads and loads the model and data files.
func LoadFiles(modelPath, dataPath string, opts ...Option) (*Tree, error) {
	model, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("cms: read model: %w", err)
	}
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("cms: read data: %w", err)
	}
	return Load(model, data, opts...)
}

// SaveFiles writes the model and data back in their source formats.
func (t *Tree) SaveFiles(modelPath, dataPath string) error {
	model, err := t.MarshalModel()
	if err != nil {
		return err
	}
	data, err := t.MarshalData()
	if err != nil {
		return err
	}
	if err := os.WriteFile(modelPath, model, 0o644); err != nil {
		return fmt.Errorf("cms: write model: %w", err)
	}
	if err := os.WriteFile(dataPath, data, 0o644); err != nil {
		return fmt.Errorf("cms: write data: %w", err)
	}
	return nil
}

func detectFormat(b []byte) docFormat {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	lines := bytes.Split(b, []byte("\n"))
	f := docFormat{indent: detectIndent(lines), indentSeq: true}
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		f.json = true
		f.tabs = usesTabs(lines)
		return f
	}
	f.indentSeq = indentedSequences(lines, f.indent)
	return f
}

// usesTabs reports whether the first indented line starts with a tab.
func usesTabs(lines [][]byte) bool {
	for _, ln := range lines {
		if len(ln) == 0 {
			continue
		}
		switch ln[0] {
		case '\t':
			return true
		case ' ':
			return false
		}
	}
	return false
}

// indentedSequences reports whether block sequences under a mapping key sit
// one indent deeper than the key (true) or at the key's column (false). Each
// "key:" line followed by a "- " line casts a vote; ties keep indented.
func indentedSequences(lines [][]byte, indent int) bool {
	votes := 0
	for i, ln := range lines {
		if isBlankOrComment(ln) || !endsWithMappingKey(ln) {
			continue
		}
		next := nextContentLine(lines[i+1:])
		if next == nil || bytes.TrimLeft(next, " ")[0] != '-' {
			continue
		}
		switch leadingSpaces(next) - leadingSpaces(ln) {
		case indent:
			votes++
		case 0:
			votes--
		}
	}
	return votes >= 0
}

func nextContentLine(lines [][]byte) []byte {
	for _, ln := range lines {
		if !isBlankOrComment(ln) {
			return ln
		}
	}
	return nil
}

func isBlankOrComment(ln []byte) bool {
	t := bytes.TrimSpace(ln)
	return len(t) == 0 || t[0] == '#'
}

// endsWithMappingKey matches "key:" optionally followed by a comment.
func endsWithMappingKey(ln []byte) bool {
	idx := bytes.IndexByte(ln, ':')
	if idx < 0 {
		return false
	}
	rest := bytes.TrimSpace(ln[idx+1:])
	return len(rest) == 0 || rest[0] == '#'
}

// detectIndent returns the greatest common divisor of the leading-space
// counts of all content lines, 2 when there is none or it exceeds 8.
func detectIndent(lines [][]byte) int {
	result := 0
	for _, ln := range lines {
		if isBlankOrComment(ln) {
			continue
		}
		n := leadingSpaces(ln)
		if n == 0 {
			continue
		}
		for b := n; b != 0; {
			result, b = b, result%b
		}
		if result == 1 {
			break
		}
	}
	if result == 0 || result > 8 {
		return 2
	}
	return result
}

func leadingSpaces(line []byte) int {
	return len(line) - len(bytes.TrimLeft(line, " "))
}
