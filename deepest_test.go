package cms

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func parseData(t *testing.T, s string) *yaml.Node {
	t.Helper()
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return doc.Content[0]
}

func TestFindDeepest(t *testing.T) {
	data1 := `{a: {name: hello}, c: {name: world}}`
	data2 := `{a: {b: {c: {name: abc}, name: ab}}, d: {name: d}, name: root}`

	tests := []struct {
		data  string
		path  string
		depth int
		name  string
	}{
		{data1, "a/b", 1, "hello"},
		{data1, "a/b/c", 1, "hello"},
		{data1, "a/b/c/1", 1, "hello"},
		{data1, "c", 1, "world"},
		{data2, "a/b", 2, "ab"},
		{data2, "a/b/c", 3, "abc"},
		{data2, "a/b/c/d/e/f/g", 3, "abc"},
		{data2, "foo/bar/hux", 0, "root"},
		{data2, "", 0, "root"},
		// "d" exists at the root but the walk already stopped at "x".
		{data2, "x/d", 0, "root"},
		// a scalar is not descended into
		{data2, "a/b/name", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			res := FindDeepest(parseData(t, tt.data), tt.path)
			if res.Depth != tt.depth {
				t.Fatalf("depth = %d, want %d", res.Depth, tt.depth)
			}
			if got := mappingValue(res.Node, "name").Value; got != tt.name {
				t.Fatalf("node name = %q, want %q", got, tt.name)
			}
			if res.Depth > len(splitPath(tt.path)) {
				t.Fatalf("consumed more segments than the path has")
			}
		})
	}
}

func TestFindDeepestAcceptsDocumentNode(t *testing.T) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("a:\n  b:\n    name: x\n"), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	res := FindDeepest(&doc, "a/b")
	if res.Depth != 2 || mappingValue(res.Node, "name").Value != "x" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFillPath(t *testing.T) {
	data := parseData(t, "a:\n  name: hello\nc:\n  name: world\n")

	if mappingValue(mappingValue(data, "a"), "b") != nil {
		t.Fatalf("a.b should not exist yet")
	}
	b := FillPath(data, "a/b")
	if b == nil || b.Kind != yaml.MappingNode || mappingValue(mappingValue(data, "a"), "b") != b {
		t.Fatalf("a.b not created")
	}

	f := FillPath(data, "a/b/d/e/f")
	if f == nil || FindDeepest(data, "a/b/d/e/f").Depth != 5 {
		t.Fatalf("a.b.d.e.f not created")
	}
	if mappingValue(data, "c") == nil {
		t.Fatalf("c lost")
	}

	FillPath(data, "c/foo/bar/3")
	bar := mappingValue(mappingValue(mappingValue(data, "c"), "foo"), "bar")
	if bar == nil || bar.Kind != yaml.MappingNode {
		t.Fatalf("c.foo.bar should be a mapping, got %#v", bar)
	}
	if got := mappingValue(mappingValue(data, "c"), "name").Value; got != "world" {
		t.Fatalf("c.name = %q", got)
	}
}

func TestFillPathConvertsScalarToMapping(t *testing.T) {
	data := parseData(t, "x: 1\n")
	m := FillPath(data, "x/y")
	if m == nil || m.Kind != yaml.MappingNode {
		t.Fatalf("x.y is not a mapping")
	}
	x := mappingValue(data, "x")
	if x.Kind != yaml.MappingNode {
		t.Fatalf("x was not converted")
	}
}

func TestFillPathNilRoot(t *testing.T) {
	if FillPath(nil, "a") != nil {
		t.Fatalf("expected nil for nil root")
	}
}
