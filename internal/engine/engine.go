package engine

import (
	"fmt"
	"log/slog"

	"github.com/theothertored/keyframelinker/internal/frames"
)

// Playhead is the host's current-frame control. SetFrame is called before
// every paste and again to restore the trigger position.
type Playhead interface {
	Frame() int64
	SetFrame(frame int64) error
}

// Transport moves opaque content at a frame through the host's clipboard.
// The engine never inspects content; Copy captures whatever lives at the
// frame and Paste writes the captured content, mirrored when flipped is set.
type Transport interface {
	Copy(frame int64) error
	Paste(frame int64, flipped bool) error
}

// Channel names one content stream handled by its own transport. The
// keyframe curves and the pose snapshot travel on separate channels, each
// copied once at the trigger and pasted to every other member.
type Channel struct {
	Name      string
	Transport Transport
}

// Paste records one propagation write for reporting.
type Paste struct {
	Channel string `json:"channel"`
	From    int64  `json:"from"`
	To      int64  `json:"to"`
	Flipped bool   `json:"flipped"`
}

// Report describes one completed propagation run.
type Report struct {
	Token   string  `json:"token"`
	Trigger int64   `json:"trigger"`
	Pastes  []Paste `json:"pastes"`
}

// Engine propagates content across a linked set.
//
// All calls run on the host's command thread; the engine assumes the host
// serializes commands and the pre-save hook and takes no locks of its own.
type Engine struct {
	playhead Playhead
	channels []Channel
	tokens   TokenGenerator
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithTokens overrides the run-token generator. Tests substitute
// NewFixedTokens for deterministic traces.
func WithTokens(g TokenGenerator) Option {
	return func(e *Engine) { e.tokens = g }
}

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an engine over the host's playhead and channels. The channel
// slice is copied; pass order is fixed at construction.
func New(playhead Playhead, channels []Channel, opts ...Option) *Engine {
	e := &Engine{
		playhead: playhead,
		channels: append([]Channel(nil), channels...),
		tokens:   UUIDTokens{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Propagate copies content at the trigger frame to every other member of
// the set, one pass per channel.
//
// Per channel: move the playhead to the trigger, copy, then for each other
// member in ascending frame order move the playhead there and paste with
// mirroring set to the XOR of the trigger's and the member's flip flags.
// The playhead returns to the trigger before the next channel and once more
// at the end.
//
// A trigger that is not a member of the set is a no-op and returns a nil
// report. Host failures abort the run and propagate; the playhead is left
// wherever the failing call put it.
func (e *Engine) Propagate(set frames.Set, trigger int64) (*Report, error) {
	trig, ok := set.Find(trigger)
	if !ok {
		return nil, nil
	}

	rep := &Report{
		Token:   e.tokens.Generate(),
		Trigger: trigger,
	}

	for _, ch := range e.channels {
		if err := e.playhead.SetFrame(trigger); err != nil {
			return nil, fmt.Errorf("move playhead to frame %d: %w", trigger, err)
		}
		if err := ch.Transport.Copy(trigger); err != nil {
			return nil, fmt.Errorf("copy %s at frame %d: %w", ch.Name, trigger, err)
		}

		for _, m := range set {
			if m.Frame == trigger {
				continue
			}
			if err := e.playhead.SetFrame(m.Frame); err != nil {
				return nil, fmt.Errorf("move playhead to frame %d: %w", m.Frame, err)
			}
			flipped := trig.Flipped != m.Flipped
			if err := ch.Transport.Paste(m.Frame, flipped); err != nil {
				return nil, fmt.Errorf("paste %s at frame %d: %w", ch.Name, m.Frame, err)
			}
			e.log.Debug("pasted linked content",
				"run", rep.Token,
				"channel", ch.Name,
				"from", trigger,
				"to", m.Frame,
				"flipped", flipped,
			)
			rep.Pastes = append(rep.Pastes, Paste{
				Channel: ch.Name,
				From:    trigger,
				To:      m.Frame,
				Flipped: flipped,
			})
		}
	}

	if err := e.playhead.SetFrame(trigger); err != nil {
		return nil, fmt.Errorf("restore playhead to frame %d: %w", trigger, err)
	}

	e.log.Info("propagated linked frames",
		"run", rep.Token,
		"trigger", trigger,
		"pastes", len(rep.Pastes),
	)
	return rep, nil
}
