package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newAddItemCmd())
}

func newAddItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-item <path> <name>",
		Short: "Add an item to a list or map",
		Long: `The add-item command appends an item to the list at path, or adds an entry
to the map at path. The name is made unique among the existing items by
appending " (2)", " (3)", ... and the item is seeded from the model defaults.

Example:
  cmsctl add-item nav/header Blog
  cmsctl add-item messages/errors forbidden --dry-run`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddItem(cmd, args)
		},
	}
	return cmd
}

func runAddItem(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	h, err := tree.FindNode(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	item, err := h.AddItem(args[1])
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}
	logger.Debug("added item", "path", h.Path, "index", item.Index)

	if err := saveTree(tree, false); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		var v any
		if err := item.Value.Decode(&v); err != nil {
			return err
		}
		return printJSON(out, map[string]any{
			"path":  h.Path,
			"index": item.Index,
			"value": v,
		})
	}
	printInfo(out, "added %v to %s\n", item.Index, h.Path)
	return nil
}
