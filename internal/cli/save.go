package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theothertored/keyframelinker/internal/command"
	"github.com/theothertored/keyframelinker/internal/engine"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Database string
}

// SaveResult holds the result of committing a document.
type SaveResult struct {
	Database string         `json:"database"`
	Report   *engine.Report `json:"report,omitempty"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Commit the document, propagating linked frames",
		Long: `Commit the document.

The pre-save sync runs first: when the playhead sits on a linked frame,
its content is copied to every other member of the set, flipped members
receiving the mirrored pose. A sync failure leaves the document unsaved.

Exit codes:
  0 - Document saved
  1 - Propagation failed
  2 - Command error (document not found, etc.)

Example:
  keylink save --db walk.anim`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the animation document (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSave(opts *SaveOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	log := newLogger(opts.Verbose)
	doc, err := openDocument(opts.Database, log)
	if err != nil {
		return err
	}
	defer doc.Close()

	// The hook keeps the report so the summary can show what
	// propagated; the registry's stock hook discards it.
	var report *engine.Report
	remove := doc.AddPreSave(func() error {
		rep, err := command.Sync(doc, engine.WithLogger(log))
		if err != nil {
			return err
		}
		report = rep
		return nil
	})
	defer remove()

	if err := doc.Save(context.Background()); err != nil {
		return WrapExitError(ExitFailure, "save failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(SaveResult{Database: opts.Database, Report: report})
	}

	w := cmd.OutOrStdout()
	if report != nil {
		fmt.Fprintf(w, "Sync %s: copy @%d\n", report.Token, report.Trigger)
		for _, p := range report.Pastes {
			if p.Flipped {
				fmt.Fprintf(w, "  paste %s @%d F\n", p.Channel, p.To)
			} else {
				fmt.Fprintf(w, "  paste %s @%d\n", p.Channel, p.To)
			}
		}
	}
	fmt.Fprintln(w, "✓ Document saved")
	return nil
}
