package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	cms "github.com/polymer940c/cms-json"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	modelPath string
	dataPath  string
	verbose   bool
	quiet     bool
	jsonOut   bool
	dryRun    bool
)

// logger discards everything unless --verbose is set.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "cmsctl",
	Short: "Navigate and edit CMS content trees",
	Long: `cmsctl resolves paths against a CMS model and its content data,
and adds list items, map entries and new nodes while keeping names unique.

The model and data files may be JSON or YAML; edits are written back in the
format and indentation they were read with.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&modelPath, "model", "m", "model.json", "Model file")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "data.json", "Data file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Do not write changes back")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogger(w io.Writer) {
	if verbose && !quiet {
		logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		return
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// loadTree reads the documents named by --model and --data.
func loadTree() (*cms.Tree, error) {
	logger.Debug("loading", "model", modelPath, "data", dataPath)
	tree, err := cms.LoadFiles(modelPath, dataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load: %w", err)
	}
	return tree, nil
}

// saveTree writes the data document back, and the model too when withModel
// is set. Nothing is written with --dry-run.
func saveTree(tree *cms.Tree, withModel bool) error {
	if dryRun {
		logger.Info("dry run, not writing", "data", dataPath)
		return nil
	}
	if withModel {
		logger.Debug("writing", "model", modelPath, "data", dataPath)
		if err := tree.SaveFiles(modelPath, dataPath); err != nil {
			return fmt.Errorf("failed to save: %w", err)
		}
		return nil
	}

	logger.Debug("writing", "data", dataPath)
	b, err := tree.MarshalData()
	if err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	if err := os.WriteFile(dataPath, b, 0o644); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(w io.Writer, format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(w, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// typeName names the type of a model node for display.
func typeName(m *cms.Model) string {
	switch {
	case m.IsTree():
		return string(cms.TypeTree)
	case m.Type == "":
		return "leaf"
	}
	return string(m.Type)
}
