// Package encode turns annotated frames into wire-ready payloads.
package encode

import (
	"encoding/hex"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

// ProviderQuality is the JPEG quality used for frames sent to the
// detection provider; matches the OpenCV encoder default so the model sees
// the same input it was tuned on.
const ProviderQuality = 95

// Encoder downscales and compresses frames for transport.
type Encoder struct {
	maxWidth int
	quality  int
}

func New(maxWidth, quality int) *Encoder {
	return &Encoder{maxWidth: maxWidth, quality: quality}
}

// TransportSize computes the output dimensions for a frame: unchanged when
// the width is within bounds, otherwise scaled to maxWidth with the height
// rounded to preserve aspect ratio.
func (e *Encoder) TransportSize(width, height int) (int, int) {
	if width <= e.maxWidth {
		return width, height
	}
	scaled := int(math.Round(float64(e.maxWidth) * float64(height) / float64(width)))
	return e.maxWidth, scaled
}

// EncodeFrame downscales the frame if needed, compresses it as JPEG at the
// transport quality, and returns the hex-encoded payload.
func (e *Encoder) EncodeFrame(frame gocv.Mat) (string, error) {
	if frame.Empty() {
		return "", fmt.Errorf("cannot encode empty frame")
	}

	target := frame
	w, h := e.TransportSize(frame.Cols(), frame.Rows())
	if w != frame.Cols() || h != frame.Rows() {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(frame, &resized, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
		target = resized
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, target, []int{gocv.IMWriteJpegQuality, e.quality})
	if err != nil {
		return "", fmt.Errorf("failed to encode frame as JPEG: %w", err)
	}
	defer buf.Close()

	return hex.EncodeToString(buf.GetBytes()), nil
}

// JPEG compresses a frame at the given quality without resizing; used for
// the full-resolution frames sent to the detection provider.
func JPEG(frame gocv.Mat, quality int) ([]byte, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("cannot encode empty frame")
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, frame, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame as JPEG: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
