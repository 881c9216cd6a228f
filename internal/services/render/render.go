// Package render burns detection annotations onto frames.
package render

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"chickeye-backend-go/internal/models"
)

const (
	boxThickness = 2
	fontFace     = gocv.FontHersheySimplex
	fontScale    = 0.8
	fontThick    = 1

	// Mask blend weights: annotated pixel = 0.65*frame + 0.35*class color.
	maskFrameWeight = 0.65
	maskColorWeight = 0.35
	maskCutoff      = 0.5
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer draws boxes, labels, and mask overlays using per-class name and
// color metadata fixed at session start.
type Renderer struct {
	names  []string
	colors []color.RGBA
}

func New(names []string, colors []color.RGBA) *Renderer {
	return &Renderer{names: names, colors: colors}
}

// classColor picks the color for a class index, white when out of range.
func (r *Renderer) classColor(cls int) color.RGBA {
	if cls >= 0 && cls < len(r.colors) {
		return r.colors[cls]
	}
	return white
}

// className picks the display name for a class index, falling back to the
// stringified index.
func (r *Renderer) className(cls int) string {
	if cls >= 0 && cls < len(r.names) {
		return r.names[cls]
	}
	return strconv.Itoa(cls)
}

// labelFor builds the box label, e.g. "Chicken 2 87%".
func (r *Renderer) labelFor(det models.Detection) string {
	return r.className(det.Class) + " " + strconv.FormatFloat(det.Confidence*100, 'f', 0, 64) + "%"
}

// textColorFor chooses the label text color against a colored background.
// The channel-sum cutoff of 500 is a fixed approximation the frontend
// palette was tuned against, not a perceptual-luminance formula.
func textColorFor(bg color.RGBA) color.RGBA {
	if int(bg.R)+int(bg.G)+int(bg.B) > 500 {
		return color.RGBA{A: 255} // black
	}
	return white
}

// Draw annotates frame in place with the given detections. Callers that
// need the original untouched pass a clone. Mask overlays accumulate
// sequentially, so a later detection's mask blends over earlier
// annotations rather than the pristine frame.
func (r *Renderer) Draw(frame *gocv.Mat, detections []models.Detection) {
	for _, det := range detections {
		col := r.classColor(det.Class)
		x1, y1 := int(det.BBox[0]), int(det.BBox[1])
		x2, y2 := int(det.BBox[2]), int(det.BBox[3])

		gocv.Rectangle(frame, image.Rect(x1, y1, x2, y2), col, boxThickness)

		label := r.labelFor(det)
		size := gocv.GetTextSize(label, fontFace, fontScale, fontThick)
		gocv.Rectangle(frame, image.Rect(x1, y1-size.Y-8, x1+size.X, y1), col, -1)
		gocv.PutText(frame, label, image.Pt(x1, y1-4), fontFace, fontScale, textColorFor(col), fontThick)

		if det.HasMask() {
			if err := blendMask(frame, det.Mask, col); err != nil {
				log.Warn().Err(err).Int("class", det.Class).Msg("Failed to blend detection mask")
			}
		}
	}
}

// blendMask resizes the mask grid to the frame dimensions and blends the
// class color into every pixel whose resized mask value exceeds the cutoff.
func blendMask(frame *gocv.Mat, grid [][]float32, col color.RGBA) error {
	rows := len(grid)
	if rows == 0 || len(grid[0]) == 0 {
		return errors.New("empty mask grid")
	}
	cols := len(grid[0])
	flat := make([]float32, 0, rows*cols)
	for _, row := range grid {
		flat = append(flat, row...)
	}

	mask, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV32F, float32SliceToBytes(flat))
	if err != nil {
		return err
	}
	defer mask.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(mask, &resized, image.Pt(frame.Cols(), frame.Rows()), 0, 0, gocv.InterpolationLinear)

	cutoffF := gocv.NewMat()
	defer cutoffF.Close()
	gocv.Threshold(resized, &cutoffF, maskCutoff, 255, gocv.ThresholdBinary)

	cutoff := gocv.NewMat()
	defer cutoff.Close()
	cutoffF.ConvertTo(&cutoff, gocv.MatTypeCV8U)

	// Solid class-color plane; scalar channel order is BGR.
	solid := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(col.B), float64(col.G), float64(col.R), 0),
		frame.Rows(), frame.Cols(), gocv.MatTypeCV8UC3)
	defer solid.Close()

	blended := gocv.NewMat()
	defer blended.Close()
	gocv.AddWeighted(*frame, maskFrameWeight, solid, maskColorWeight, 0, &blended)

	blended.CopyToWithMask(frame, cutoff)
	return nil
}

func float32SliceToBytes(vals []float32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}
