package stability

import (
	"testing"

	"chickeye-backend-go/internal/models"
)

func det(class int, conf float64) models.Detection {
	return models.Detection{Class: class, Confidence: conf, BBox: [4]float64{0, 0, 10, 10}}
}

// feed pushes n frames where the given classes are present.
func feed(f *Filter, n int, classes ...int) {
	frame := make([]models.Detection, 0, len(classes))
	for _, c := range classes {
		frame = append(frame, det(c, 0.9))
	}
	for i := 0; i < n; i++ {
		f.Apply(frame)
	}
}

func TestPresenceRatioBoundary(t *testing.T) {
	// 8 of the last 10 frames present (ratio 0.8) => included.
	f := NewFilter(1)
	feed(f, 2)
	feed(f, 7, 0)
	out := f.Apply([]models.Detection{det(0, 0.5)})
	if len(out) != 1 {
		t.Fatalf("ratio 0.8 should be stable, got %d detections", len(out))
	}

	// 7 of 10 (ratio 0.7) => excluded.
	f = NewFilter(1)
	feed(f, 3)
	feed(f, 6, 0)
	out = f.Apply([]models.Detection{det(0, 0.5)})
	if len(out) != 0 {
		t.Fatalf("ratio 0.7 should be unstable, got %d detections", len(out))
	}
}

func TestShortHistoryUsesActualLength(t *testing.T) {
	// Three frames observed, class present in all three: 3/3 = 1.0.
	f := NewFilter(2)
	feed(f, 2, 0)
	out := f.Apply([]models.Detection{det(0, 0.9)})
	if len(out) != 1 {
		t.Fatalf("class present in all of a short history should be stable, got %d", len(out))
	}
}

func TestFirstFrameIsStable(t *testing.T) {
	f := NewFilter(2)
	out := f.Apply([]models.Detection{det(1, 0.7)})
	if len(out) != 1 {
		t.Fatalf("single-frame history has ratio 1.0, got %d detections", len(out))
	}
}

func TestOutOfRangeClassDroppedAndIgnored(t *testing.T) {
	f := NewFilter(2)
	for i := 0; i < 10; i++ {
		out := f.Apply([]models.Detection{det(5, 0.99)})
		if len(out) != 0 {
			t.Fatalf("out-of-range class must never appear in output")
		}
	}
	// The rogue class never contributed to any configured history: class 0
	// was absent throughout, so it stays unstable.
	out := f.Apply([]models.Detection{det(0, 0.9)})
	if len(out) != 0 {
		t.Fatalf("class 0 has ratio 1/10, expected unstable")
	}
}

func TestNegativeClassDropped(t *testing.T) {
	f := NewFilter(2)
	out := f.Apply([]models.Detection{det(-1, 0.9)})
	if len(out) != 0 {
		t.Fatalf("negative class must be dropped, got %d", len(out))
	}
}

func TestSortedByConfidenceDescendingStable(t *testing.T) {
	f := NewFilter(4)
	raw := []models.Detection{det(0, 0.5), det(1, 0.9), det(2, 0.5), det(3, 0.7)}
	out := f.Apply(raw)
	if len(out) != 4 {
		t.Fatalf("expected 4 stable detections, got %d", len(out))
	}
	wantOrder := []int{1, 3, 0, 2} // 0.9, 0.7, then the two 0.5s in input order
	for i, cls := range wantOrder {
		if out[i].Class != cls {
			t.Fatalf("position %d: got class %d, want %d (full order %v)", i, out[i].Class, cls, out)
		}
	}
}

func TestTruncatedToClassCount(t *testing.T) {
	f := NewFilter(2)
	raw := []models.Detection{det(0, 0.9), det(1, 0.8), det(0, 0.7), det(1, 0.6)}
	out := f.Apply(raw)
	if len(out) != 2 {
		t.Fatalf("output must be capped at class count 2, got %d", len(out))
	}
	if out[0].Confidence != 0.9 || out[1].Confidence != 0.8 {
		t.Fatalf("truncation must keep the highest-confidence entries, got %v", out)
	}
}

func TestWindowEviction(t *testing.T) {
	// Present for 10 frames, then absent: the presence ratio decays one
	// evicted flag at a time and drops below threshold after 3 absences.
	f := NewFilter(1)
	feed(f, 10, 0)
	feed(f, 2)
	out := f.Apply([]models.Detection{det(0, 0.9)})
	if len(out) != 1 {
		t.Fatalf("ratio 8/10 after two absences should still be stable")
	}
	feed(f, 2)
	out = f.Apply([]models.Detection{det(0, 0.9)})
	if len(out) != 0 {
		t.Fatalf("ratio should have decayed below threshold, got %v", out)
	}
}

func TestZeroClassesAlwaysEmpty(t *testing.T) {
	f := NewFilter(0)
	out := f.Apply([]models.Detection{det(0, 0.9)})
	if len(out) != 0 {
		t.Fatalf("filter with no configured classes must drop everything")
	}
}
