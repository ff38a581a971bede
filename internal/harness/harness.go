package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/theothertored/keyframelinker/internal/command"
	"github.com/theothertored/keyframelinker/internal/document"
	"github.com/theothertored/keyframelinker/internal/engine"
)

// Harness drives one scenario against a fresh in-memory document.
type Harness struct {
	doc    *document.Document
	tokens *engine.FixedTokens
	logger *slog.Logger

	// report holds the propagation report the pre-save hook captured
	// for the save step currently executing. Nil when the save did not
	// propagate anything.
	report *engine.Report
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory document for isolation.
// Fixed sync run tokens keep the rendered trace reproducible.
//
// Execution flow:
//  1. Build an in-memory document from the scenario's description
//  2. Attach the pre-save sync hook with fixed run tokens
//  3. Execute the steps, appending trace lines for each
//  4. Evaluate assertions against the final document state
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	doc, err := document.OpenMemory(document.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory document: %w", err)
	}
	defer doc.Close()

	ctx := context.Background()
	if err := doc.Import(ctx, &scenario.Document); err != nil {
		return nil, fmt.Errorf("failed to build document: %w", err)
	}

	h := &Harness{
		doc:    doc,
		tokens: engine.NewFixedTokens(syncTokens(scenario)...),
		logger: logger,
	}

	// The hook runs the same sync path the editor integration uses,
	// but keeps the report so the trace can show what propagated.
	remove := doc.AddPreSave(func() error {
		report, err := command.Sync(doc,
			engine.WithTokens(h.tokens),
			engine.WithLogger(h.logger),
		)
		if err != nil {
			return err
		}
		h.report = report
		return nil
	})
	defer remove()

	result := NewResult(scenario.Name)
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, step, result); err != nil {
			return nil, fmt.Errorf("failed to execute step %d: %w", i, err)
		}
	}

	for _, msg := range EvaluateAssertions(ctx, doc, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// syncTokens returns the scenario's fixed tokens, defaulting to one
// generated token per save step. Propagation consumes at most one
// token per save, so the default never runs out.
func syncTokens(s *Scenario) []string {
	if len(s.SyncTokens) > 0 {
		return s.SyncTokens
	}
	var tokens []string
	for _, step := range s.Steps {
		if step.Save {
			tokens = append(tokens, fmt.Sprintf("sync-%02d", len(tokens)+1))
		}
	}
	return tokens
}

// executeStep runs one step and appends its trace lines.
//
// Command and save errors are part of the behavior under test, so they
// land in the trace instead of aborting the run. Infrastructure steps
// (select, goto, set_key) abort on error.
func (h *Harness) executeStep(ctx context.Context, step Step, result *Result) error {
	switch {
	case step.Select != nil:
		if err := h.doc.SelectFrames(ctx, step.Select); err != nil {
			return fmt.Errorf("select: %w", err)
		}
		result.AddLine(selectLine(step.Select))

	case step.Goto != nil:
		if err := h.doc.SetFrame(*step.Goto); err != nil {
			return fmt.Errorf("goto: %w", err)
		}
		result.AddLine(fmt.Sprintf("goto %d", *step.Goto))

	case step.SetKey != nil:
		edit := step.SetKey
		act, err := h.doc.ActionByName(ctx, edit.Action)
		if err != nil {
			return fmt.Errorf("set_key: %w", err)
		}
		if err := act.SetKey(ctx, edit.Curve, edit.Frame, edit.Value, false); err != nil {
			return fmt.Errorf("set_key: %w", err)
		}
		result.AddLine(fmt.Sprintf("edit %s %s @%d = %s",
			edit.Action, edit.Curve, edit.Frame, formatValue(edit.Value)))

	case step.Run != "":
		cmd, ok := command.Find(step.Run)
		if !ok {
			return fmt.Errorf("unknown command %q", step.Run)
		}
		out, err := cmd.Run(h.doc)
		if err != nil {
			result.AddLine(fmt.Sprintf("%s: error: %v", step.Run, err))
			return nil
		}
		result.AddLine(outcomeLine(step.Run, out))
		for _, line := range out.Lines {
			result.AddLine("  " + line)
		}

	case step.Save:
		h.report = nil
		if err := h.doc.Save(ctx); err != nil {
			result.AddLine(fmt.Sprintf("save: error: %v", err))
			return nil
		}
		result.AddLine("save: ok")
		if h.report != nil {
			result.AddLine("  " + syncLine(h.report))
		}
	}
	return nil
}

// selectLine renders a selection step.
func selectLine(frameNums []int64) string {
	if len(frameNums) == 0 {
		return "select none"
	}
	return "select " + frameList(frameNums)
}

// frameList renders frames as a comma-separated list.
func frameList(frameNums []int64) string {
	parts := make([]string, len(frameNums))
	for i, f := range frameNums {
		parts[i] = strconv.FormatInt(f, 10)
	}
	return strings.Join(parts, ", ")
}

// outcomeLine renders a command outcome header. The command's report
// lines follow indented.
func outcomeLine(name string, out *command.Outcome) string {
	switch {
	case out.Saved && out.Refresh:
		return name + ": saved, refreshed"
	case out.Saved:
		return name + ": saved"
	case len(out.Lines) > 0:
		return name + ":"
	default:
		return name + ": no-op"
	}
}

// syncLine renders one propagation run, "F" marking flipped pastes.
func syncLine(rep *engine.Report) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "sync %s: copy @%d", rep.Token, rep.Trigger)
	for _, p := range rep.Pastes {
		fmt.Fprintf(&buf, ", paste %s @%d", p.Channel, p.To)
		if p.Flipped {
			buf.WriteString(" F")
		}
	}
	return buf.String()
}

// formatValue renders a channel value without trailing zeros.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
