package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// MarshalData encodes the data tree in the format it was loaded from.
func (t *Tree) MarshalData() ([]byte, error) {
	return encodeDoc(t.dataDoc, t.dataFmt)
}

// MarshalModel encodes the model tree in the format it was loaded from.
func (t *Tree) MarshalModel() ([]byte, error) {
	return encodeDoc(t.Model, t.modelFmt)
}

func encodeDoc(v any, f docFormat) ([]byte, error) {
	if f.json {
		n, ok := v.(*yaml.Node)
		if !ok {
			n = &yaml.Node{}
			if err := n.Encode(v); err != nil {
				return nil, fmt.Errorf("cms: encode: %w", err)
			}
		}
		raw, err := yaml.Marshal(jsonReady(n))
		if err != nil {
			return nil, fmt.Errorf("cms: encode: %w", err)
		}
		return yamlToIndentedJSON(raw, f)
	}

	raw, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cms: encode: %w", err)
	}

	// Re-encode through an ordered map so indentation and sequence style
	// follow the source document.
	ordered := gyaml.MapSlice{}
	comments := gyaml.CommentMap{}
	if err := gyaml.UnmarshalWithOptions(raw, &ordered, gyaml.UseOrderedMap(), gyaml.CommentToMap(comments)); err != nil {
		return nil, fmt.Errorf("cms: encode: %w", err)
	}
	var buf bytes.Buffer
	enc := gyaml.NewEncoder(
		&buf, gyaml.Indent(f.indent), gyaml.IndentSequence(f.indentSeq), gyaml.WithComment(comments),
	)
	if err := enc.Encode(ordered); err != nil {
		return nil, fmt.Errorf("cms: encode: %w", err)
	}
	_ = enc.Close()
	return buf.Bytes(), nil
}

func yamlToIndentedJSON(raw []byte, f docFormat) ([]byte, error) {
	js, err := gyaml.YAMLToJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("cms: encode json: %w", err)
	}
	indent := strings.Repeat(" ", f.indent)
	if f.tabs {
		indent = "\t"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(js), "", indent); err != nil {
		return nil, fmt.Errorf("cms: encode json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// nodeJSON encodes a single data node as compact JSON, keeping key order.
func nodeJSON(n *yaml.Node) ([]byte, error) {
	raw, err := yaml.Marshal(jsonReady(n))
	if err != nil {
		return nil, err
	}
	js, err := gyaml.YAMLToJSON(raw)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(js), nil
}

// jsonReady returns a copy of n whose plain float scalars are spelled with a
// decimal point. goccy/go-yaml resolves "1e3" as a string, which would turn
// numbers into strings on the way to JSON.
func jsonReady(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if c.Kind == yaml.ScalarNode && c.Style&quotedStyles == 0 && c.ShortTag() == "!!float" {
		c.Value = floatLiteral(c.Value)
	}
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = jsonReady(child)
		}
	}
	return &c
}

const quotedStyles = yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle

// floatLiteral respells a float so it always carries a mantissa with a dot:
// 1e3 -> 1000.0, -2.5E-4 -> -0.00025, 1e21 -> 1.0e+21.
func floatLiteral(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	out := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.Contains(out, ".") {
		return out
	}
	if i := strings.IndexByte(out, 'e'); i >= 0 {
		return out[:i] + ".0" + out[i:]
	}
	return out + ".0"
}
