package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theothertored/keyframelinker/internal/document"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
}

// ImportResult holds the result of building a document.
type ImportResult struct {
	Database string           `json:"database"`
	Actions  []ImportedAction `json:"actions"`
}

// ImportedAction summarizes one imported action.
type ImportedAction struct {
	Name       string `json:"name"`
	Curves     int    `json:"curves"`
	LinkedSets int    `json:"linked_sets"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <doc.yaml>",
		Short: "Build an animation document from a YAML description",
		Long: `Build an animation document from a YAML description.

The description declares the scene (playhead, open editors) and the
actions with their curves, keys, poses, and linked frame sets. Import
refuses to overwrite an existing document.

Example:
  keylink import walk.yaml --db walk.anim`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path for the new animation document (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runImport(opts *ImportOptions, descPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if _, err := os.Stat(opts.Database); err == nil {
		return outputImportError(formatter, ErrCodeExists,
			fmt.Sprintf("document already exists: %s", opts.Database))
	}

	if _, err := os.Stat(descPath); os.IsNotExist(err) {
		return outputImportError(formatter, ErrCodeNotFound,
			fmt.Sprintf("description not found: %s", descPath))
	}

	desc, err := document.LoadDescription(descPath)
	if err != nil {
		return outputImportError(formatter, ErrCodeDescription, err.Error())
	}

	formatter.VerboseLog("Building %s from %s", opts.Database, descPath)

	doc, err := document.Open(opts.Database, document.WithLogger(newLogger(opts.Verbose)))
	if err != nil {
		return outputImportError(formatter, ErrCodeDocument,
			fmt.Sprintf("failed to create document: %v", err))
	}

	if err := doc.Import(context.Background(), desc); err != nil {
		doc.Close()
		// Drop the half-built file so a rerun starts clean.
		os.Remove(opts.Database)
		return outputImportError(formatter, ErrCodeDocument,
			fmt.Sprintf("failed to build document: %v", err))
	}
	if err := doc.Close(); err != nil {
		return outputImportError(formatter, ErrCodeDocument,
			fmt.Sprintf("failed to close document: %v", err))
	}

	return outputImportSuccess(formatter, desc, opts.Database)
}

// outputImportSuccess outputs a successful import summary.
func outputImportSuccess(formatter *OutputFormatter, desc *document.Description, database string) error {
	result := ImportResult{
		Database: database,
		Actions:  make([]ImportedAction, 0, len(desc.Actions)),
	}
	for _, act := range desc.Actions {
		result.Actions = append(result.Actions, ImportedAction{
			Name:       act.Name,
			Curves:     len(act.Curves),
			LinkedSets: len(act.LinkedFrames),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Imported %d action(s) into %s\n", len(result.Actions), database)
	for _, act := range result.Actions {
		fmt.Fprintf(formatter.Writer, "  %s: %d curve(s), %d linked set(s)\n",
			act.Name, act.Curves, act.LinkedSets)
	}
	return nil
}

// outputImportError outputs an import error.
func outputImportError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
