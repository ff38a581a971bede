package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theothertored/keyframelinker/internal/command"
	"github.com/theothertored/keyframelinker/internal/document"
)

// InvokeOptions holds flags for the commands in the command table.
type InvokeOptions struct {
	*RootOptions
	Database string
	Frames   []int64
}

// InvokeResult holds the outcome of one command run.
type InvokeResult struct {
	Command   string   `json:"command"`
	Saved     bool     `json:"saved"`
	Refreshed bool     `json:"refreshed"`
	Lines     []string `json:"lines,omitempty"`
}

// newTableCommand wraps one command table entry as a CLI subcommand.
// The table drives the set, so the CLI and editor menus stay in step.
func newTableCommand(rootOpts *RootOptions, entry command.Command) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   entry.Name,
		Short: entry.Label,
		Long: fmt.Sprintf(`%s

The command runs against the document's active action. Frames with
selected keys form the target selection; --frames substitutes an
explicit frame list.

Examples:
  keylink %s --db walk.anim
  keylink %s --db walk.anim --frames 10,20`, entry.Doc, entry.Name, entry.Name),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableCommand(opts, entry, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the animation document (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().Int64SliceVar(&opts.Frames, "frames", nil, "explicit target frames (comma-separated)")

	return cmd
}

func runTableCommand(opts *InvokeOptions, entry command.Command, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	doc, err := openDocument(opts.Database, newLogger(opts.Verbose))
	if err != nil {
		return err
	}
	defer doc.Close()

	host := commandHost(doc, opts.Frames)
	out, err := entry.Run(host)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("%s failed", entry.Name), err)
	}

	// A saved outcome asks the host to commit; the CLI host commits by
	// saving the document. Hooks are not attached here, so the save
	// only marks the revision - propagation belongs to keylink save.
	if out.Saved {
		if err := doc.Save(context.Background()); err != nil {
			return WrapExitError(ExitCommandError, "failed to save document", err)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(InvokeResult{
			Command:   entry.Name,
			Saved:     out.Saved,
			Refreshed: out.Refresh,
			Lines:     out.Lines,
		})
	}

	w := cmd.OutOrStdout()
	for _, line := range out.Lines {
		fmt.Fprintln(w, line)
	}
	switch {
	case out.Saved:
		fmt.Fprintln(w, "✓ Document updated")
	case len(out.Lines) == 0:
		fmt.Fprintln(w, "Nothing to do.")
	}
	return nil
}

// commandHost returns the host the command runs against. An explicit
// frame list overrides the document's stored key selection.
func commandHost(doc *document.Document, frameNums []int64) command.Host {
	if frameNums == nil {
		return doc
	}
	return &frameListHost{Document: doc, frames: explicitFrames(frameNums)}
}

// frameListHost substitutes an explicit selection for the document's.
type frameListHost struct {
	*document.Document
	frames []int64
}

func (h *frameListHost) SelectedFrames() ([]int64, error) {
	out := make([]int64, len(h.frames))
	copy(out, h.frames)
	return out, nil
}

// explicitFrames sorts and dedupes a user-supplied frame list, keeping
// the host's distinct-and-ordered selection contract.
func explicitFrames(frameNums []int64) []int64 {
	seen := make(map[int64]bool, len(frameNums))
	out := make([]int64, 0, len(frameNums))
	for _, f := range frameNums {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
