package photoedit_test

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalemusser/photoshare/internal/app/system/photoedit"
	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGray(t *testing.T, w, h int, v uint8) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo_1.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
	require.NoError(t, f.Close())
	return path
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func TestApply_IdentityReturnsSource(t *testing.T) {
	src := writeGray(t, 8, 8, 100)

	out, err := photoedit.Editor{}.Apply(context.Background(), src, photoedit.Transform{})
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestApply_ZoomCrops(t *testing.T) {
	src := writeGray(t, 60, 40, 100)

	out, err := photoedit.Editor{}.Apply(context.Background(), src, photoedit.Transform{Zoom: 2})
	require.NoError(t, err)
	assert.NotEqual(t, src, out)

	b := decode(t, out).Bounds()
	assert.Equal(t, 30, b.Dx())
	assert.Equal(t, 20, b.Dy())
}

func TestApply_BrightnessLightens(t *testing.T) {
	src := writeGray(t, 16, 16, 100)

	out, err := photoedit.Editor{}.Apply(context.Background(), src, photoedit.Transform{Brightness: 0.2})
	require.NoError(t, err)

	r, _, _, _ := decode(t, out).At(8, 8).RGBA()
	assert.InDelta(t, 151, float64(r>>8), 4)
}

func TestValidate_Ranges(t *testing.T) {
	for name, tr := range map[string]photoedit.Transform{
		"brightness": {Brightness: 1.5},
		"zoom low":   {Zoom: 0.5},
		"zoom high":  {Zoom: 4},
		"offset":     {Zoom: 2, OffsetX: -2},
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, tr.Validate(), apperr.ErrValidation)
		})
	}
	assert.NoError(t, photoedit.Identity().Validate())
	assert.True(t, photoedit.Transform{}.IsIdentity())
}
