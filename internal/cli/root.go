package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theothertored/keyframelinker/internal/command"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the keylink CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "keylink",
		Short: "keylink - linked keyframes for animation documents",
		Long: `Group keyframes so editing one edits them all.

keylink manages linked frame sets on an animation document: frames in a
set stay in sync, and flipped members receive the mirrored pose. Saving
the document propagates the current frame's content to its linked
frames.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewImportCommand(opts))
	for _, entry := range command.Table() {
		cmd.AddCommand(newTableCommand(opts, entry))
	}
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
