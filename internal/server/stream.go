// Package server provides the HTTP control surface for the Naagin game daemon.
package server

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"time"

	"github.com/ayusman/naagin/internal/capture"
	"gocv.io/x/gocv"
)

// headMarkerRadius is the radius in pixels of the tracked-head circle drawn
// onto streamed frames.
const headMarkerRadius = 8

// StreamHandler serves MJPEG frames from the camera with the tracked head
// position drawn in, so players can see what the classifier sees.
type StreamHandler struct {
	camera capture.Camera
	game   Controller
}

// NewStreamHandler creates a new StreamHandler. The controller may be nil,
// in which case frames stream without the head marker.
func NewStreamHandler(camera capture.Camera, game Controller) *StreamHandler {
	return &StreamHandler{camera: camera, game: game}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, err := h.camera.ReadFrame()
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		h.drawHeadMarker(frame)

		// Encode as JPEG
		buf, err := gocv.IMEncode(".jpg", *frame)
		frame.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}

// drawHeadMarker overlays the smoothed head position on the frame when
// tracking is live.
func (h *StreamHandler) drawHeadMarker(frame *gocv.Mat) {
	if h.game == nil {
		return
	}
	snap := h.game.Snapshot()
	if snap.Head == nil {
		return
	}

	center := image.Pt(int(snap.Head.X), int(snap.Head.Y))
	gocv.Circle(frame, center, headMarkerRadius, color.RGBA{G: 255, A: 255}, 2)
}
