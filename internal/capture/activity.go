package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityGate decides whether a frame is worth running pose inference on,
// using frame differencing with Gaussian blur for noise reduction. A static
// scene means the head has not moved, so the pipeline can republish the last
// head observation instead of paying for inference.
type ActivityGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Frame differencing constants
const (
	// gateBlurSize is the kernel size for Gaussian blur (21x21)
	gateBlurSize = 21
	// gateDiffThreshold is the binary threshold for difference detection
	gateDiffThreshold = 25
)

// NewActivityGate creates an ActivityGate with the given threshold.
// The threshold is the percentage of pixels that must change between
// consecutive frames for the frame to count as active.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Changed reports whether the frame differs from the previous one beyond the
// threshold, along with the percentage of pixels that changed. The first
// frame always reports true so inference runs at least once.
func (g *ActivityGate) Changed(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: gateBlurSize, Y: gateBlurSize}, 0, 0, gocv.BorderDefault)

	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return true, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, gateDiffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()

	blurred.CopyTo(&g.prevGray)

	if total == 0 {
		return false, 0
	}

	changePercent := float64(nonZero) / float64(total) * 100
	return changePercent > g.threshold, changePercent
}

// Reset clears the previous-frame baseline.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initialized = false
}

// Close releases the internal Mat.
func (g *ActivityGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prevGray.Close()
}
