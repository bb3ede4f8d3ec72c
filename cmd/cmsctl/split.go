package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSplitCmd())
}

func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <path>",
		Short: "Split a path into its tree path and item index",
		Long: `The split command separates the structural part of a path from the list
index or map key that follows the first list or map node. The index is -1
for purely structural paths.

Example:
  cmsctl split nav/header/2
  cmsctl split messages/errors/notFound --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd, args)
		},
	}
	return cmd
}

func runSplit(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	res, err := tree.TreePathAndIndex(args[0])
	if err != nil {
		return fmt.Errorf("failed to split path: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, map[string]any{
			"fullPath": res.FullPath,
			"treePath": res.TreePath,
			"index":    res.Index,
		})
	}
	printInfo(out, "tree path: %s\n", res.TreePath)
	printInfo(out, "index: %v\n", res.Index)
	return nil
}
