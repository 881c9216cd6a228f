package models

// Detection is one raw result from the detection provider. BBox is
// [x1, y1, x2, y2] in source-frame pixel coordinates. Mask, when present,
// is a 2-D grid of mask scores normalized to the frame dimensions; a nil
// Mask means the model produced a plain bounding box.
type Detection struct {
	Class      int         `json:"class"`
	Confidence float64     `json:"confidence"`
	BBox       [4]float64  `json:"bbox"`
	Mask       [][]float32 `json:"mask,omitempty"`
}

// HasMask reports whether the detection carries a segmentation mask.
func (d Detection) HasMask() bool {
	return len(d.Mask) > 0
}

// StreamMessage is the per-frame unit sent to a connected client. Frame is
// the hex-encoded JPEG payload and Timestamp is wall-clock milliseconds
// since epoch.
type StreamMessage struct {
	Frame      string      `json:"frame"`
	Detections []Detection `json:"detections"`
	Timestamp  float64     `json:"timestamp"`
}

// ErrorMessage is sent once when a session cannot start, right before the
// connection is closed.
type ErrorMessage struct {
	Error string `json:"error"`
}

// DetectionEvent is the payload published to NATS when a frame yields
// stabilized detections.
type DetectionEvent struct {
	Source     string      `json:"source"`
	Detections []Detection `json:"detections"`
	Timestamp  float64     `json:"timestamp"`
}
