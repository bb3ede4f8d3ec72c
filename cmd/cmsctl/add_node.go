package main

import (
	"fmt"

	cms "github.com/polymer940c/cms-json"
	"github.com/spf13/cobra"
)

var addNodeType string

func init() {
	cmd := newAddNodeCmd()
	cmd.Flags().StringVarP(&addNodeType, "type", "t", string(cms.TypeTree), "Node type: tree, list-object or map-object")
	rootCmd.AddCommand(cmd)
}

func newAddNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-node <path> <name>",
		Short: "Add a child node to a tree node",
		Long: `The add-node command appends a new child to the model of the tree node at
path and creates its empty data. The name is made unique among the existing
children. Both the model and the data file are written back.

Example:
  cmsctl add-node nav Sidebar --type list-object
  cmsctl add-node "" Settings`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddNode(cmd, args)
		},
	}
	return cmd
}

func runAddNode(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	h, err := tree.FindNode(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	child, err := h.AddNode(args[1], cms.NodeType(addNodeType))
	if err != nil {
		return fmt.Errorf("failed to add node: %w", err)
	}
	logger.Debug("added node", "path", child.Path, "type", child.Model.Type)

	if err := saveTree(tree, true); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, map[string]any{
			"path": child.Path,
			"name": child.Model.Name,
			"type": child.Model.Type,
		})
	}
	printInfo(out, "added %s %q at %s\n", child.Model.Type, child.Model.Name, child.Path)
	return nil
}
