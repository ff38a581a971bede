// Package frames is the linked-frame data model: membership records, linked
// sets, the partition of a timeline into disjoint sets, and the pure
// operations over them (link, unlink, flip).
//
// This package is the foundational layer. All other internal packages import
// frames; frames imports nothing internal. The host is reached only through
// the PropCarrier interface, which exposes a single custom-property slot on
// the host's action object.
//
// # Data model
//
//   - Member: one frame's membership in a set, carrying its flip flag.
//     Identity is the frame number alone; the flag never participates in
//     membership checks.
//   - Set: members of one linked group, unique by frame, always sorted
//     ascending. A set with fewer than two members is degenerate and is
//     filtered out on encode.
//   - Partition: the ordered collection of sets for one action. A frame
//     belongs to at most one set. Set order is append order and survives a
//     load/save round trip; report numbering follows it.
//
// # Lifecycle
//
// Nothing here is cached. Every command loads the partition fresh from the
// host property, works on that copy, and saves (or deletes) the property.
// The Store's lifetime is a single command invocation.
package frames
