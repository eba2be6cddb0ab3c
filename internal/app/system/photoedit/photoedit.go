// Package photoedit applies the preview adjustments (brightness and zoom
// crop) to a captured JPEG before it is uploaded.
package photoedit

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// Transform describes the edits chosen during preview.
//
// Brightness is in [-1, 1], 0 leaves the image unchanged. Zoom is in
// [1, 3]; values above 1 crop to the centre region 1/Zoom of each side,
// shifted by OffsetX/OffsetY in [-1, 1] towards an edge.
type Transform struct {
	Brightness float64 `json:"brightness"`
	Zoom       float64 `json:"zoom"`
	OffsetX    float64 `json:"offset_x"`
	OffsetY    float64 `json:"offset_y"`
}

// Identity is the no-op transform.
func Identity() Transform {
	return Transform{Zoom: 1}
}

// Normalize maps a zero Zoom to 1.
func (t Transform) Normalize() Transform {
	if t.Zoom == 0 {
		t.Zoom = 1
	}
	return t
}

// IsIdentity reports whether applying t would not change the image.
func (t Transform) IsIdentity() bool {
	t = t.Normalize()
	return t.Brightness == 0 && t.Zoom == 1
}

// Validate checks every field is in range.
func (t Transform) Validate() error {
	t = t.Normalize()
	switch {
	case t.Brightness < -1 || t.Brightness > 1:
		return apperr.Validation("brightness must be between -1 and 1")
	case t.Zoom < 1 || t.Zoom > 3:
		return apperr.Validation("zoom must be between 1 and 3")
	case t.OffsetX < -1 || t.OffsetX > 1 || t.OffsetY < -1 || t.OffsetY > 1:
		return apperr.Validation("crop offsets must be between -1 and 1")
	}
	return nil
}

// Editor writes edited copies next to the source file.
type Editor struct {
	Quality int
}

// Apply writes src with t applied to <src>_edited.jpg and returns that
// path. The identity transform returns src untouched.
func (e Editor) Apply(ctx context.Context, src string, t Transform) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	t = t.Normalize()
	if t.IsIdentity() {
		return src, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open capture: %w", err)
	}
	img, err := jpeg.Decode(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("decode capture: %w", err)
	}

	out := render(img, crop(img, t), t.Brightness)

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "_edited.jpg"
	w, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create edited photo: %w", err)
	}
	q := e.Quality
	if q <= 0 {
		q = 90
	}
	if err := jpeg.Encode(w, out, &jpeg.Options{Quality: q}); err != nil {
		w.Close()
		return "", fmt.Errorf("encode edited photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("write edited photo: %w", err)
	}
	return dst, nil
}

// crop returns the zoom window of img.
func crop(img image.Image, t Transform) image.Rectangle {
	b := img.Bounds()
	if t.Zoom <= 1 {
		return b
	}
	cw := int(float64(b.Dx()) / t.Zoom)
	ch := int(float64(b.Dy()) / t.Zoom)
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	slackX, slackY := b.Dx()-cw, b.Dy()-ch
	x0 := b.Min.X + slackX/2 + int(t.OffsetX*float64(slackX)/2)
	y0 := b.Min.Y + slackY/2 + int(t.OffsetY*float64(slackY)/2)
	return image.Rect(x0, y0, x0+cw, y0+ch).Intersect(b)
}

// render copies the r window of img into a new image with brightness
// shifted by delta*255 per channel.
func render(img image.Image, r image.Rectangle, delta float64) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	shift := delta * 255
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			out.SetRGBA(x-r.Min.X, y-r.Min.Y, color.RGBA{
				R: clamp8(float64(c.R) + shift),
				G: clamp8(float64(c.G) + shift),
				B: clamp8(float64(c.B) + shift),
				A: c.A,
			})
		}
	}
	return out
}

func clamp8(v float64) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v + 0.5)
}
