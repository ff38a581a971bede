package document

import (
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Pose is a whole-character snapshot at one frame: element name →
// channel → value. The pose content channel transports it as one unit.
type Pose map[string]map[string]float64

// normalized returns the pose with element names in NFC.
func (p Pose) normalized() Pose {
	out := make(Pose, len(p))
	for element, channels := range p {
		out[norm.NFC.String(element)] = channels
	}
	return out
}

func marshalPose(p Pose) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal pose: %w", err)
	}
	return string(data), nil
}

func parsePose(raw string) (Pose, error) {
	var p Pose
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parse pose: %w", err)
	}
	return p, nil
}
