package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var patchMerge bool

func init() {
	cmd := newPatchCmd()
	cmd.Flags().BoolVar(&patchMerge, "merge", false, "Treat the patch as a JSON Merge Patch (RFC 7386)")
	rootCmd.AddCommand(cmd)
}

func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <path> <patch-file>",
		Short: "Apply a JSON Patch to the content at a path",
		Long: `The patch command applies a JSON Patch (RFC 6902) to the content at path.
Pointers in the patch are relative to that content. Use "-" to read the
patch from standard input, and --merge for a JSON Merge Patch.

Example:
  cmsctl patch nav/header/1 fix-url.json
  echo '{"title":"Oops"}' | cmsctl patch messages/errors/internalError - --merge`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(cmd, args)
		},
	}
	return cmd
}

func runPatch(cmd *cobra.Command, args []string) error {
	var (
		patch []byte
		err   error
	)
	if args[1] == "-" {
		patch, err = io.ReadAll(cmd.InOrStdin())
	} else {
		patch, err = os.ReadFile(args[1])
	}
	if err != nil {
		return fmt.Errorf("failed to read patch: %w", err)
	}

	tree, err := loadTree()
	if err != nil {
		return err
	}
	h, err := tree.FindNode(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if patchMerge {
		err = h.ApplyMergePatch(patch)
	} else {
		err = h.ApplyPatchBytes(patch)
	}
	if err != nil {
		return fmt.Errorf("failed to apply patch: %w", err)
	}
	logger.Debug("patched", "path", h.Path, "merge", patchMerge)

	if err := saveTree(tree, false); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		v, err := h.Value()
		if err != nil {
			return err
		}
		return printJSON(out, map[string]any{"path": h.Path, "value": v})
	}
	printInfo(out, "patched %s\n", h.Path)
	return nil
}
