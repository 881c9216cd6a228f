package render

import (
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"chickeye-backend-go/internal/models"
)

var testPalette = []color.RGBA{
	{R: 0xef, G: 0x44, B: 0x44, A: 255}, // red
	{R: 0x94, G: 0xa3, B: 0xb8, A: 255}, // slate
}

func newTestRenderer() *Renderer {
	return New([]string{"Chicken 1", "Chicken 2"}, testPalette)
}

func TestClassColorFallback(t *testing.T) {
	r := newTestRenderer()
	if got := r.classColor(0); got != testPalette[0] {
		t.Errorf("classColor(0) = %v, want %v", got, testPalette[0])
	}
	if got := r.classColor(7); got != white {
		t.Errorf("classColor(7) = %v, want white fallback", got)
	}
	if got := r.classColor(-1); got != white {
		t.Errorf("classColor(-1) = %v, want white fallback", got)
	}
}

func TestClassNameFallback(t *testing.T) {
	r := newTestRenderer()
	if got := r.className(1); got != "Chicken 2" {
		t.Errorf("className(1) = %q", got)
	}
	if got := r.className(9); got != "9" {
		t.Errorf("className(9) = %q, want stringified index", got)
	}
}

func TestLabelRoundsConfidence(t *testing.T) {
	r := newTestRenderer()
	tests := []struct {
		conf float64
		want string
	}{
		{0.874, "Chicken 1 87%"},
		{0.876, "Chicken 1 88%"},
		{0.5, "Chicken 1 50%"},
		{1.0, "Chicken 1 100%"},
	}
	for _, tt := range tests {
		got := r.labelFor(models.Detection{Class: 0, Confidence: tt.conf})
		if got != tt.want {
			t.Errorf("labelFor(conf=%v) = %q, want %q", tt.conf, got, tt.want)
		}
	}
}

func TestTextColorCutoff(t *testing.T) {
	black := color.RGBA{A: 255}
	tests := []struct {
		bg   color.RGBA
		want color.RGBA
	}{
		{color.RGBA{R: 255, G: 255, B: 255, A: 255}, black}, // sum 765
		{color.RGBA{R: 167, G: 167, B: 167, A: 255}, black}, // sum 501
		{color.RGBA{R: 167, G: 167, B: 166, A: 255}, white}, // sum 500, not above the cutoff
		{color.RGBA{R: 0xef, G: 0x44, B: 0x44, A: 255}, white},
		{color.RGBA{A: 255}, white},
	}
	for _, tt := range tests {
		if got := textColorFor(tt.bg); got != tt.want {
			t.Errorf("textColorFor(%v) = %v, want %v", tt.bg, got, tt.want)
		}
	}
}

func TestDrawPaintsBoxInClassColor(t *testing.T) {
	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	r := newTestRenderer()
	r.Draw(&frame, []models.Detection{
		{Class: 0, Confidence: 0.9, BBox: [4]float64{10, 40, 60, 90}},
	})

	// Left edge of the box, mid-height. Channel order in the Mat is BGR.
	px := frame.GetVecbAt(60, 10)
	want := testPalette[0]
	if px[0] != want.B || px[1] != want.G || px[2] != want.R {
		t.Fatalf("box pixel = BGR(%d,%d,%d), want BGR(%d,%d,%d)",
			px[0], px[1], px[2], want.B, want.G, want.R)
	}
}

func TestDrawBlendsMask(t *testing.T) {
	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	// Mask covers the whole frame once resized.
	mask := [][]float32{{1, 1}, {1, 1}}
	r := newTestRenderer()
	r.Draw(&frame, []models.Detection{
		{Class: 0, Confidence: 0.9, BBox: [4]float64{10, 10, 30, 30}, Mask: mask},
	})

	// A pixel far from the box and label: black frame blended with the class
	// color at 35% weight.
	px := frame.GetVecbAt(80, 80)
	want := testPalette[0]
	checkNear := func(ch string, got uint8, base uint8) {
		expected := float64(base) * maskColorWeight
		if d := float64(got) - expected; d < -1.5 || d > 1.5 {
			t.Errorf("%s channel = %d, want about %.1f", ch, got, expected)
		}
	}
	checkNear("B", px[0], want.B)
	checkNear("G", px[1], want.G)
	checkNear("R", px[2], want.R)
}

func TestDrawMaskBelowCutoffLeavesFrame(t *testing.T) {
	frame := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC3)
	defer frame.Close()

	mask := [][]float32{{0.2, 0.2}, {0.2, 0.2}}
	r := newTestRenderer()
	r.Draw(&frame, []models.Detection{
		{Class: 0, Confidence: 0.9, BBox: [4]float64{10, 10, 30, 30}, Mask: mask},
	})

	px := frame.GetVecbAt(80, 80)
	if px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Fatalf("pixels under a sub-cutoff mask must be untouched, got BGR(%d,%d,%d)", px[0], px[1], px[2])
	}
}

func TestDrawEmptyMaskIsSafe(t *testing.T) {
	frame := gocv.NewMatWithSize(50, 50, gocv.MatTypeCV8UC3)
	defer frame.Close()

	r := newTestRenderer()
	r.Draw(&frame, []models.Detection{
		{Class: 0, Confidence: 0.9, BBox: [4]float64{5, 10, 20, 25}, Mask: [][]float32{{}}},
	})
	// Reaching here without a panic is the assertion.
}
