package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(newFindCmd())
}

func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <path>",
		Short: "Resolve a path to its model and data",
		Long: `The find command resolves a path against the model and data trees and
prints the model node it lands on together with the content stored there.

Example:
  cmsctl find nav/header
  cmsctl find nav/header/2 --json
  cmsctl find messages/errors/notFound`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, args)
		},
	}
	return cmd
}

type findResult struct {
	Path      string `json:"path"`
	Model     string `json:"model"`
	Type      string `json:"type"`
	Container string `json:"container,omitempty"`
	Populated bool   `json:"populated"`
	Value     any    `json:"value"`
}

func runFind(cmd *cobra.Command, args []string) error {
	tree, err := loadTree()
	if err != nil {
		return err
	}
	h, err := tree.FindNode(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	logger.Debug("resolved", "path", h.Path, "model", h.Model.Name, "populated", h.Data != nil)

	out := cmd.OutOrStdout()
	if jsonOut {
		v, err := h.Value()
		if err != nil {
			return err
		}
		res := findResult{
			Path:      h.Path,
			Model:     h.Model.Name,
			Type:      typeName(h.Model),
			Populated: h.Data != nil,
			Value:     v,
		}
		if h.Container != nil {
			res.Container = h.Container.Name
		}
		return printJSON(out, res)
	}

	printInfo(out, "model: %s (%s)\n", h.Model.Name, typeName(h.Model))
	if h.Container != nil {
		printInfo(out, "container: %s (%s)\n", h.Container.Name, h.Container.Type)
	}
	if h.Data == nil {
		printInfo(out, "data: <none>\n")
		return nil
	}
	b, err := yaml.Marshal(h.Data)
	if err != nil {
		return fmt.Errorf("failed to encode data: %w", err)
	}
	printInfo(out, "data:\n%s", b)
	return nil
}
