package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results, including swapping them
// while a capture loop is running.
type MockDetector struct {
	mu    sync.Mutex
	poses []Pose
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPoses sets the poses that will be returned by Detect.
func (m *MockDetector) SetPoses(poses []Pose) {
	m.mu.Lock()
	m.poses = poses
	m.mu.Unlock()
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Detect returns the pre-configured poses or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Pose, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.poses, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// CenteredPose returns a preset Pose with the head at the given frame position.
// Shoulders and hips are placed below the head at anatomically plausible offsets
// so the fixture looks like a real upright subject facing the camera.
func CenteredPose(headX, headY float64) Pose {
	pose := Pose{Score: 0.92}

	pose.Points[Nose] = Keypoint{X: headX, Y: headY, Confidence: 0.95}
	pose.Points[LeftEye] = Keypoint{X: headX + 12, Y: headY - 10, Confidence: 0.93}
	pose.Points[RightEye] = Keypoint{X: headX - 12, Y: headY - 10, Confidence: 0.93}
	pose.Points[LeftEar] = Keypoint{X: headX + 28, Y: headY - 5, Confidence: 0.80}
	pose.Points[RightEar] = Keypoint{X: headX - 28, Y: headY - 5, Confidence: 0.80}

	pose.Points[LeftShoulder] = Keypoint{X: headX + 70, Y: headY + 90, Confidence: 0.90}
	pose.Points[RightShoulder] = Keypoint{X: headX - 70, Y: headY + 90, Confidence: 0.90}
	pose.Points[LeftElbow] = Keypoint{X: headX + 95, Y: headY + 180, Confidence: 0.70}
	pose.Points[RightElbow] = Keypoint{X: headX - 95, Y: headY + 180, Confidence: 0.70}
	pose.Points[LeftWrist] = Keypoint{X: headX + 100, Y: headY + 260, Confidence: 0.55}
	pose.Points[RightWrist] = Keypoint{X: headX - 100, Y: headY + 260, Confidence: 0.55}
	pose.Points[LeftHip] = Keypoint{X: headX + 50, Y: headY + 280, Confidence: 0.60}
	pose.Points[RightHip] = Keypoint{X: headX - 50, Y: headY + 280, Confidence: 0.60}

	// Lower body usually falls outside a webcam frame
	pose.Points[LeftKnee] = Keypoint{Confidence: 0.05}
	pose.Points[RightKnee] = Keypoint{Confidence: 0.05}
	pose.Points[LeftAnkle] = Keypoint{Confidence: 0.02}
	pose.Points[RightAnkle] = Keypoint{Confidence: 0.02}

	return pose
}

// OccludedHeadPose returns a preset Pose where the nose and both eyes are
// below any usable confidence, as when the subject turns away from the camera.
func OccludedHeadPose() Pose {
	pose := CenteredPose(320, 200)
	pose.Points[Nose].Confidence = 0.10
	pose.Points[LeftEye].Confidence = 0.08
	pose.Points[RightEye].Confidence = 0.12
	pose.Score = 0.55
	return pose
}
