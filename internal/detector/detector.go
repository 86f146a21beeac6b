package detector

import "gocv.io/x/gocv"

// Detector defines the interface for body pose detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected body poses.
	// Returns an empty slice if no person is detected.
	Detect(frame *gocv.Mat) ([]Pose, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MaxPersons is the maximum number of people to detect (default: 1).
	MaxPersons int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinKeypointConf is the minimum per-keypoint confidence threshold (0.0-1.0).
	MinKeypointConf float64
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxPersons:      1,
		MinConfidence:   0.5,
		MinKeypointConf: 0.3,
	}
}
