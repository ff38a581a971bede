package document

import (
	"context"
	"sort"
	"strings"

	"github.com/theothertored/keyframelinker/internal/engine"
)

// Content channel names, in propagation order.
const (
	ChannelKeys = "keys"
	ChannelPose = "pose"
)

func (d *Document) channels(act *Action) []engine.Channel {
	return []engine.Channel{
		{Name: ChannelKeys, Transport: &keysTransport{act: act}},
		{Name: ChannelPose, Transport: &poseTransport{act: act}},
	}
}

// keysTransport moves the selected keyframe column between frames. The
// clipboard lives for one propagation run.
type keysTransport struct {
	act  *Action
	clip map[string]float64
}

func (t *keysTransport) Copy(frame int64) error {
	snap, err := t.act.keysAt(context.Background(), frame, true)
	if err != nil {
		return err
	}
	t.clip = snap
	return nil
}

func (t *keysTransport) Paste(frame int64, flipped bool) error {
	names := make([]string, 0, len(t.clip))
	for name := range t.clip {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := t.clip[name]
		target := name
		if flipped {
			target = mirrorName(name)
			value = mirrorValue(name, value)
		}
		if err := t.act.SetKey(context.Background(), target, frame, value, false); err != nil {
			return err
		}
	}
	return nil
}

// poseTransport moves the whole-pose snapshot between frames. Frames
// without a stored pose copy an empty clipboard, and pasting an empty
// clipboard writes nothing.
type poseTransport struct {
	act  *Action
	clip Pose
}

func (t *poseTransport) Copy(frame int64) error {
	pose, _, err := t.act.Pose(context.Background(), frame)
	if err != nil {
		return err
	}
	t.clip = pose
	return nil
}

func (t *poseTransport) Paste(frame int64, flipped bool) error {
	if len(t.clip) == 0 {
		return nil
	}
	pose := t.clip
	if flipped {
		pose = mirrorPose(pose)
	}
	return t.act.SetPose(context.Background(), frame, pose)
}

// mirrorName swaps the .L/.R suffix of the element segment, so content
// pasted flipped lands on the opposite side: "arm.L/location.x"
// becomes "arm.R/location.x". Names without a side suffix come back
// unchanged.
func mirrorName(name string) string {
	element, channel, hasChannel := strings.Cut(name, "/")
	switch {
	case strings.HasSuffix(element, ".L"):
		element = strings.TrimSuffix(element, ".L") + ".R"
	case strings.HasSuffix(element, ".R"):
		element = strings.TrimSuffix(element, ".R") + ".L"
	}
	if !hasChannel {
		return element
	}
	return element + "/" + channel
}

// mirrorValue negates channels that reflect across the character's
// center plane: only the x channel changes sign.
func mirrorValue(name string, v float64) float64 {
	if channelLeaf(name) == "x" {
		return -v
	}
	return v
}

func channelLeaf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func mirrorPose(p Pose) Pose {
	out := make(Pose, len(p))
	for element, channels := range p {
		flipped := make(map[string]float64, len(channels))
		for ch, v := range channels {
			if ch == "x" {
				v = -v
			}
			flipped[ch] = v
		}
		out[mirrorName(element)] = flipped
	}
	return out
}
