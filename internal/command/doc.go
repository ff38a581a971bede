// Package command implements the user-facing operations on linked
// frames: link, unlink, flip, info, and the pre-save sync hook.
//
// Every command follows one shape: load the partition fresh from the
// active action, apply the algebra, save, and describe the result in
// an Outcome. Commands never trigger redraws or surface reports
// themselves; the caller reads the Outcome and decides. The hook is
// the one place content moves: before the host persists its document,
// Sync propagates the current frame's content across its linked set so
// the saved file never diverges from the links.
package command
