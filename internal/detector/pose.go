// Package detector provides body pose detection interfaces and types for head tracking.
package detector

// Body keypoint indices following the COCO convention used by YOLOv8-pose.
const (
	Nose          = 0
	LeftEye       = 1
	RightEye      = 2
	LeftEar       = 3
	RightEar      = 4
	LeftShoulder  = 5
	RightShoulder = 6
	LeftElbow     = 7
	RightElbow    = 8
	LeftWrist     = 9
	RightWrist    = 10
	LeftHip       = 11
	RightHip      = 12
	LeftKnee      = 13
	RightKnee     = 14
	LeftAnkle     = 15
	RightAnkle    = 16
	NumKeypoints  = 17
)

// Keypoint is a single detected body landmark in frame pixel coordinates.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Pose represents the 17 body keypoints detected for one person.
type Pose struct {
	Points [NumKeypoints]Keypoint `json:"points"`
	Score  float64                `json:"score"`
}

// Head returns the head reference keypoint for this pose. The nose is used
// when its confidence meets minConfidence; otherwise the midpoint of the two
// eyes is used if both are confident enough. The second return value is false
// when no usable head keypoint exists.
func (p *Pose) Head(minConfidence float64) (Keypoint, bool) {
	if p == nil {
		return Keypoint{}, false
	}

	nose := p.Points[Nose]
	if nose.Confidence >= minConfidence {
		return nose, true
	}

	left := p.Points[LeftEye]
	right := p.Points[RightEye]
	if left.Confidence >= minConfidence && right.Confidence >= minConfidence {
		mid := Keypoint{
			X:          (left.X + right.X) / 2,
			Y:          (left.Y + right.Y) / 2,
			Confidence: (left.Confidence + right.Confidence) / 2,
		}
		return mid, true
	}

	return Keypoint{}, false
}
