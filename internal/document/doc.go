// Package document is the SQLite-backed animation document the linked
// frame commands run against. It plays the host role: it owns actions,
// their curves, keys, poses, and custom properties, plus the scene
// state (playhead, active action, open editors), and it exposes the
// capability surfaces the core consumes - the property carrier, the
// selection resolver, the playhead, the per-channel content
// transports, and the pre-save hook registry.
//
// Uses SQLite with WAL mode; a document file is safe to reopen across
// command invocations. All names (actions, curves, pose elements) are
// normalized to NFC on the way in so lookups are insensitive to the
// Unicode composition form of the source file.
package document
