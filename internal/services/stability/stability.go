// Package stability smooths noisy per-frame detections into temporally
// stable results using a rolling per-class presence window.
package stability

import (
	"sort"

	"chickeye-backend-go/internal/models"
)

// WindowSize is the capacity of each class's rolling presence history.
const WindowSize = 10

// PresenceThreshold is the minimum fraction of recent frames a class must
// appear in before its detections are considered stable.
const PresenceThreshold = 0.8

// classHistory is a fixed-capacity FIFO of per-frame presence flags.
type classHistory struct {
	flags []bool
}

func (h *classHistory) push(seen bool) {
	h.flags = append(h.flags, seen)
	if len(h.flags) > WindowSize {
		h.flags = h.flags[1:]
	}
}

// ratio is the fraction of recorded frames in which the class was seen.
// The denominator is the actual history length, so young sessions are not
// penalized for frames that never happened. An empty history yields 0.
func (h *classHistory) ratio() float64 {
	if len(h.flags) == 0 {
		return 0
	}
	seen := 0
	for _, f := range h.flags {
		if f {
			seen++
		}
	}
	return float64(seen) / float64(len(h.flags))
}

// Filter holds one session's presence histories. It is not safe for
// concurrent use; each session owns exactly one Filter.
type Filter struct {
	histories []classHistory
}

// NewFilter creates a filter tracking numClasses classes. The class set is
// fixed for the filter's lifetime.
func NewFilter(numClasses int) *Filter {
	return &Filter{histories: make([]classHistory, numClasses)}
}

// NumClasses returns the number of tracked classes.
func (f *Filter) NumClasses() int {
	return len(f.histories)
}

// Apply records one frame's raw detections against every class history and
// returns the detections that are currently stable: class in range,
// presence ratio at or above the threshold, sorted by confidence descending
// (ties keep input order) and truncated to the class count. Detections with
// an out-of-range class are dropped and never touch any history.
func (f *Filter) Apply(raw []models.Detection) []models.Detection {
	present := make(map[int]bool, len(raw))
	for _, det := range raw {
		present[det.Class] = true
	}
	for cls := range f.histories {
		f.histories[cls].push(present[cls])
	}

	stable := make([]models.Detection, 0, len(raw))
	for _, det := range raw {
		if det.Class < 0 || det.Class >= len(f.histories) {
			continue
		}
		if f.histories[det.Class].ratio() >= PresenceThreshold {
			stable = append(stable, det)
		}
	}

	sort.SliceStable(stable, func(i, j int) bool {
		return stable[i].Confidence > stable[j].Confidence
	})
	if len(stable) > len(f.histories) {
		stable = stable[:len(f.histories)]
	}
	return stable
}
