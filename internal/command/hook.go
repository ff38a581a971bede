package command

import (
	"fmt"

	"github.com/theothertored/keyframelinker/internal/engine"
	"github.com/theothertored/keyframelinker/internal/frames"
)

// SyncSurface is the editing surface the pre-save hook drives: the
// action whose frames are linked, the playhead, and one content
// transport per channel.
type SyncSurface interface {
	// Action returns the property carrier of the action being edited,
	// or false when no action is active.
	Action() (frames.PropCarrier, bool)

	// Playhead exposes playhead reads and moves.
	Playhead() engine.Playhead

	// Channels returns the content channels to propagate, in order.
	Channels() []engine.Channel

	// BeginSync prepares the surface for propagation at the trigger
	// frame (key selection narrowed to the trigger column, every pose
	// element included) and returns a function that restores the prior
	// selection and editor state.
	BeginSync(trigger int64) (restore func() error, err error)
}

// SurfaceProvider locates a SyncSurface, or reports that none is open.
type SurfaceProvider interface {
	SyncSurface() (SyncSurface, bool)
}

// Sync propagates the current frame's content to every frame linked to
// it. It runs from the host's pre-save hook so the saved document
// never diverges across a linked set.
//
// A missing action, an empty partition, or a playhead outside any
// linked set is a no-op and returns a nil report. A missing editor
// surface is an error: letting the save proceed without propagation
// would silently break the links.
func Sync(provider SurfaceProvider, opts ...engine.Option) (*engine.Report, error) {
	surface, ok := provider.SyncSurface()
	if !ok {
		return nil, NewNoSurfaceError()
	}

	carrier, ok := surface.Action()
	if !ok {
		return nil, nil
	}
	part, err := frames.NewStore(carrier).Load()
	if err != nil {
		return nil, fmt.Errorf("load linked frames: %w", err)
	}
	if len(part) == 0 {
		return nil, nil
	}

	playhead := surface.Playhead()
	trigger := playhead.Frame()
	idx := part.FindSet(trigger)
	if idx < 0 {
		return nil, nil
	}

	restore, err := surface.BeginSync(trigger)
	if err != nil {
		return nil, fmt.Errorf("prepare surface for sync: %w", err)
	}

	report, err := engine.New(playhead, surface.Channels(), opts...).Propagate(part[idx], trigger)
	if err != nil {
		return nil, err
	}
	if err := restore(); err != nil {
		return nil, fmt.Errorf("restore surface after sync: %w", err)
	}
	return report, nil
}
