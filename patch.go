package cms

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"gopkg.in/yaml.v3"
)

// ApplyPatchBytes applies a JSON Patch (RFC 6902, raw JSON) to the content at h.
// Pointers are relative to h.
func (h *Handle) ApplyPatchBytes(patchJSON []byte) error {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return fmt.Errorf("cms: invalid JSON Patch: %w", err)
	}
	return h.ApplyPatch(patch)
}

// ApplyPatch applies a decoded JSON Patch to the content at h. The content is
// replaced in place; key order of untouched entries is kept.
func (h *Handle) ApplyPatch(patch jsonpatch.Patch) error {
	return h.rewrite(func(doc []byte) ([]byte, error) {
		return patch.Apply(doc)
	})
}

// ApplyMergePatch applies a JSON Merge Patch (RFC 7386) to the content at h.
func (h *Handle) ApplyMergePatch(patchJSON []byte) error {
	return h.rewrite(func(doc []byte) ([]byte, error) {
		return jsonpatch.MergePatch(doc, patchJSON)
	})
}

// Value decodes the content at h into plain Go values; nil when not populated.
func (h *Handle) Value() (any, error) {
	if h.Data == nil {
		return nil, nil
	}
	var v any
	if err := h.Data.Decode(&v); err != nil {
		return nil, fmt.Errorf("cms: decode %q: %w", h.Path, err)
	}
	return v, nil
}

func (h *Handle) rewrite(apply func([]byte) ([]byte, error)) error {
	if h.Data == nil {
		return &PathError{Path: h.Path, Err: ErrNoData}
	}
	doc, err := nodeJSON(h.Data)
	if err != nil {
		return fmt.Errorf("cms: encode %q: %w", h.Path, err)
	}
	out, err := apply(doc)
	if err != nil {
		return fmt.Errorf("cms: patch %q: %w", h.Path, err)
	}
	var tmp yaml.Node
	if err := yaml.Unmarshal(out, &tmp); err != nil {
		return fmt.Errorf("cms: patch %q: %w", h.Path, err)
	}
	repl := unwrapDocument(&tmp)
	if repl == nil {
		repl = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
	clearStyle(repl)
	repl.HeadComment, repl.LineComment, repl.FootComment = h.Data.HeadComment, h.Data.LineComment, h.Data.FootComment
	*h.Data = *repl
	return nil
}

// clearStyle drops the flow style JSON input leaves on parsed nodes so the
// patched content encodes like the rest of the document.
func clearStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	n.Line, n.Column = 0, 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
