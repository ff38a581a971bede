// Package engine implements linked-frame content propagation.
//
// When the host is about to persist its document, every frame linked to the
// current one must receive the current frame's content so the saved file
// honors the links. The engine drives that: given a linked set and the
// trigger frame, it copies content at the trigger once per channel and
// pastes it to every other member, mirrored exactly when the trigger and the
// target disagree on orientation (an XOR of their flip flags).
//
// The engine owns no content. It moves it through the host's Transport
// interface, one Transport per channel (keyframe curves and the pose
// snapshot are separate channels), and steers the host's Playhead, restoring
// it to the trigger between channel passes and at the end.
//
// Propagation is strictly sequential and deterministic: channels in
// registration order, members in ascending frame order. Each run carries a
// token (UUIDv7 in production, a fixed sequence in tests) that correlates
// its log lines and trace events.
package engine
