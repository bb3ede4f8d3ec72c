package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cms "github.com/polymer940c/cms-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture copies the package fixtures into a temp dir and returns the paths.
func fixture(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, 0, 2)
	for _, name := range []string{"model.json", "data.json"} {
		b, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
		require.NoError(t, err)
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, b, 0o644))
		paths = append(paths, p)
	}
	return paths[0], paths[1]
}

// run executes cmsctl against the given documents and returns its stdout.
func run(t *testing.T, model, data string, args ...string) (string, error) {
	t.Helper()

	// Reset flags
	verbose = false
	quiet = false
	jsonOut = false
	dryRun = false
	addNodeType = string(cms.TypeTree)
	patchMerge = false

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append([]string{"--model", model, "--data", data}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFindCommand(t *testing.T) {
	model, data := fixture(t)

	tests := []struct {
		name        string
		args        []string
		wantErr     error
		wantContain []string
	}{
		{
			name:        "tree node",
			args:        []string{"find", "messages"},
			wantContain: []string{"model: Messages (tree)", "internalError", "notFound"},
		},
		{
			name:        "list item",
			args:        []string{"find", "nav/header/2"},
			wantContain: []string{"model: Link (tree)", "container: Header (list-object)", "/blog"},
		},
		{
			name:        "unpopulated slot",
			args:        []string{"find", "nav/header/7"},
			wantContain: []string{"data: <none>"},
		},
		{
			name:    "unknown child",
			args:    []string{"find", "nav/sidebar"},
			wantErr: cms.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, model, data, tt.args...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantContain {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFindCommandJSON(t *testing.T) {
	model, data := fixture(t)

	out, err := run(t, model, data, "--json", "find", "messages/errors/internalError")
	require.NoError(t, err)

	var res struct {
		Model     string         `json:"model"`
		Container string         `json:"container"`
		Populated bool           `json:"populated"`
		Value     map[string]any `json:"value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "Error", res.Model)
	assert.Equal(t, "Errors", res.Container)
	assert.True(t, res.Populated)
	assert.Equal(t, "Internal Error", res.Value["title"])
}

func TestSplitCommand(t *testing.T) {
	model, data := fixture(t)

	out, err := run(t, model, data, "--json", "split", "nav/header/5")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "nav/header", res["treePath"])
	assert.Equal(t, float64(5), res["index"])

	out, err = run(t, model, data, "split", "messages/errors/3")
	require.NoError(t, err)
	assert.Contains(t, out, "tree path: messages/errors\n")
	assert.Contains(t, out, "index: 3\n")

	_, err = run(t, model, data, "split", "nav/header/first")
	assert.True(t, errors.Is(err, cms.ErrBadIndex), "got %v", err)
}

func TestDeepestCommand(t *testing.T) {
	model, data := fixture(t)

	out, err := run(t, model, data, "deepest", "messages/errors/missing/deeper")
	require.NoError(t, err)
	assert.Contains(t, out, "depth: 2\n")
	assert.Contains(t, out, "internalError")
}

func TestAddItemCommand(t *testing.T) {
	model, data := fixture(t)

	out, err := run(t, model, data, "add-item", "nav/header", "Blog")
	require.NoError(t, err)
	assert.Contains(t, out, "added 3 to nav/header")

	tree, err := cms.LoadFiles(model, data)
	require.NoError(t, err)
	h, err := tree.FindNode("nav/header/3")
	require.NoError(t, err)
	v, err := h.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"label": "Blog (2)", "url": "/"}, v)
}

func TestAddItemCommandDryRun(t *testing.T) {
	model, data := fixture(t)
	before, err := os.ReadFile(data)
	require.NoError(t, err)

	_, err = run(t, model, data, "--dry-run", "add-item", "messages/errors", "notFound")
	require.NoError(t, err)

	after, err := os.ReadFile(data)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestAddItemCommandRejectsTreeNode(t *testing.T) {
	model, data := fixture(t)

	_, err := run(t, model, data, "add-item", "site_info", "x")
	assert.True(t, errors.Is(err, cms.ErrInvalidNodeType), "got %v", err)
}

func TestAddNodeCommand(t *testing.T) {
	model, data := fixture(t)

	out, err := run(t, model, data, "--json", "add-node", "messages", "Banners", "--type", "map-object")
	require.NoError(t, err)
	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res), out)
	assert.Equal(t, "messages/Banners", res["path"])

	tree, err := cms.LoadFiles(model, data)
	require.NoError(t, err)
	h, err := tree.FindNode("messages/Banners")
	require.NoError(t, err)
	assert.Equal(t, cms.TypeMapObject, h.Model.Type)
	require.NotNil(t, h.Data)

	// same name again gets a suffix
	out, err = run(t, model, data, "add-node", "messages", "Banners", "--type", "map-object")
	require.NoError(t, err)
	assert.Contains(t, out, `"Banners (2)"`)
}

func TestAddNodeCommandRejectsLeafType(t *testing.T) {
	model, data := fixture(t)

	_, err := run(t, model, data, "add-node", "nav", "Logo", "--type", "string")
	assert.True(t, errors.Is(err, cms.ErrInvalidNodeType), "got %v", err)
}

func TestPatchCommand(t *testing.T) {
	model, data := fixture(t)
	patch := filepath.Join(t.TempDir(), "patch.json")
	require.NoError(t, os.WriteFile(patch, []byte(`[{"op":"replace","path":"/title","value":"Your Site"}]`), 0o644))

	out, err := run(t, model, data, "patch", "site_info", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "patched site_info")

	tree, err := cms.LoadFiles(model, data)
	require.NoError(t, err)
	h, err := tree.FindNode("site_info")
	require.NoError(t, err)
	v, err := h.Value()
	require.NoError(t, err)
	assert.Equal(t, "Your Site", v.(map[string]any)["title"])
}

func TestPatchCommandMergeFromStdin(t *testing.T) {
	model, data := fixture(t)

	verbose, quiet, jsonOut, dryRun, patchMerge = false, false, false, false, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(`{"body":null}`))
	rootCmd.SetArgs([]string{"--model", model, "--data", data, "--json", "patch", "messages/errors/notFound", "-", "--merge"})
	require.NoError(t, rootCmd.Execute())

	var res struct {
		Value map[string]any `json:"value"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &res), out.String())
	assert.Equal(t, map[string]any{"title": "Not Found"}, res.Value)
}
