package main

import (
	"fmt"

	cms "github.com/polymer940c/cms-json"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeepestCmd())
}

func newDeepestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deepest <path>",
		Short: "Find how far a path reaches into the data",
		Long: `The deepest command walks a path through nested mappings of the data,
ignoring the model, and reports how many segments matched and the keys of
the deepest mapping reached.

Example:
  cmsctl deepest messages/errors/internalError
  cmsctl deepest nav/missing/entry`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeepest(cmd, args)
		},
	}
	return cmd
}

func runDeepest(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	res := cms.FindDeepest(tree.Data, args[0])

	var keys []string
	for i := 0; i+1 < len(res.Node.Content); i += 2 {
		keys = append(keys, res.Node.Content[i].Value)
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return printJSON(out, map[string]any{
			"depth": res.Depth,
			"keys":  keys,
		})
	}
	printInfo(out, "depth: %d\n", res.Depth)
	printInfo(out, "keys: %s\n", fmt.Sprint(keys))
	return nil
}
