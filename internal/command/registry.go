package command

import (
	"github.com/theothertored/keyframelinker/internal/engine"
)

// Command is one user-facing operation in the table.
type Command struct {
	// Name is the stable identifier commands are looked up by.
	Name string

	// Label is the human-facing title shown in menus.
	Label string

	// Doc is the one-line description.
	Doc string

	// Run executes the command against the host.
	Run func(Host) (*Outcome, error)
}

// Table returns the command table in menu order.
func Table() []Command {
	return []Command{
		{
			Name:  "link",
			Label: "Link Frames",
			Doc:   "Links frames - when one of them is edited, they all change.",
			Run:   Link,
		},
		{
			Name:  "flip",
			Label: "Flip Linked Frames",
			Doc:   "Flips a linked frame - this one will be pasted flipped.",
			Run:   Flip,
		},
		{
			Name:  "unlink",
			Label: "Unlink Frames",
			Doc:   "Unlinks frames that were linked with Link Frames.",
			Run:   Unlink,
		},
		{
			Name:  "info",
			Label: "Linked Frame Info",
			Doc:   "Reports the linked frame sets for the current action.",
			Run:   Info,
		},
	}
}

// Find returns the named command from the table.
func Find(name string) (Command, bool) {
	for _, c := range Table() {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// Hooks is the host's lifecycle hook registry. Handlers attached to
// the pre-save hook run before the host persists its document; a
// handler error aborts the save.
type Hooks interface {
	AddPreSave(fn func() error) (remove func())
}

// Registration records an attached sync hook so it can be detached
// again. It is the only registration state the package keeps.
type Registration struct {
	remove func()
}

// Register attaches the pre-save sync hook to the host.
func Register(hooks Hooks, provider SurfaceProvider, opts ...engine.Option) *Registration {
	remove := hooks.AddPreSave(func() error {
		_, err := Sync(provider, opts...)
		return err
	})
	return &Registration{remove: remove}
}

// Unregister detaches the hook. Safe to call more than once.
func (r *Registration) Unregister() {
	if r.remove != nil {
		r.remove()
		r.remove = nil
	}
}
