package session

import (
	"fmt"
	"strconv"

	"gocv.io/x/gocv"
)

// VideoSource is a FrameSource backed by an OpenCV VideoCapture. The
// descriptor is either a device index ("0") or a URI/path.
type VideoSource struct {
	cap *gocv.VideoCapture
}

// OpenVideoSource opens the capture and verifies it is usable. Nothing
// guards two sessions opening the same device index concurrently; the
// second open fails or degrades at the driver's discretion.
func OpenVideoSource(descriptor string) (*VideoSource, error) {
	var (
		cap *gocv.VideoCapture
		err error
	)
	if index, convErr := strconv.Atoi(descriptor); convErr == nil {
		cap, err = gocv.OpenVideoCapture(index)
	} else {
		cap, err = gocv.OpenVideoCapture(descriptor)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open video source %s: %w", descriptor, err)
	}
	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("video source %s is not opened", descriptor)
	}
	return &VideoSource{cap: cap}, nil
}

func (v *VideoSource) Read(dst *gocv.Mat) bool {
	return v.cap.Read(dst)
}

// SeekStart rewinds to the first frame. File-backed sources loop; for live
// devices the seek is a best-effort no-op.
func (v *VideoSource) SeekStart() {
	v.cap.Set(gocv.VideoCapturePosFrames, 0)
}

func (v *VideoSource) Close() error {
	return v.cap.Close()
}
