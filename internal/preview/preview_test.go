package preview

import (
	"encoding/base64"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/raster-features/internal/raster"
)

// rampGrid returns a rows x cols grid holding 0, 1, 2, ... in row-major order.
func rampGrid(t *testing.T, rows, cols int) *raster.Grid {
	t.Helper()
	g, err := raster.NewGrid(raster.Geometry{Rows: rows, Cols: cols, Transform: raster.Identity}, math.NaN())
	require.NoError(t, err)
	for i := range g.Data {
		g.Data[i] = float64(i)
	}
	return g
}

func TestPercentileStretch(t *testing.T) {
	g := rampGrid(t, 10, 10)

	s, err := PercentileStretch(g, 0)
	require.NoError(t, err)
	assert.Equal(t, Stretch{Low: 0, High: 99}, s)

	s, err = PercentileStretch(g, 0.025)
	require.NoError(t, err)
	assert.Equal(t, Stretch{Low: 2, High: 97}, s)

	_, err = PercentileStretch(g, 0.5)
	assert.Error(t, err)
}

func TestPercentileStretch_NoValidPixels(t *testing.T) {
	g := rampGrid(t, 2, 2)
	for i := range g.Data {
		g.Data[i] = math.NaN()
	}
	_, err := PercentileStretch(g, 0.02)
	var de *raster.DegenerateInputError
	assert.ErrorAs(t, err, &de)
}

func TestGrayscale(t *testing.T) {
	g := rampGrid(t, 10, 10)
	g.Set(5, 5, math.NaN())

	img, err := Grayscale(g, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())

	black := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	white := color.NRGBAModel.Convert(img.At(9, 9)).(color.NRGBA)
	hole := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, black)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, white)
	assert.Equal(t, uint8(0), hole.A)
}

func TestGrayscale_GammaBrightensMidtones(t *testing.T) {
	g := rampGrid(t, 10, 10)

	flat, err := Grayscale(g, 1)
	require.NoError(t, err)
	bright, err := Grayscale(g, DefaultGamma)
	require.NoError(t, err)

	fr, _, _, _ := flat.At(0, 5).RGBA()
	br, _, _, _ := bright.At(0, 5).RGBA()
	assert.Greater(t, br, fr)
}

func TestRamp(t *testing.T) {
	r, err := NewRamp("#000000", "#ffffff")
	require.NoError(t, err)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, r.At(-3))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, r.At(2))

	mid := r.At(0.5)
	assert.InDelta(t, mid.R, mid.G, 1)
	assert.InDelta(t, mid.G, mid.B, 1)
	assert.True(t, mid.R > 100 && mid.R < 140, "Lab midpoint %v", mid)
}

func TestNewRamp_Errors(t *testing.T) {
	_, err := NewRamp("#000000")
	assert.Error(t, err)
	_, err = NewRamp("#000000", "blue")
	assert.Error(t, err)
}

func TestColorized(t *testing.T) {
	g, err := raster.FromRows([][]float64{{-1, 1, math.NaN()}}, raster.Identity, "", math.NaN())
	require.NoError(t, err)

	img := Colorized(g, Stretch{Low: -1, High: 1}, IndexRamp)

	assert.Equal(t, color.NRGBA{0x8c, 0x51, 0x0a, 255}, img.At(0, 0))
	assert.Equal(t, color.NRGBA{0x1a, 0x96, 0x41, 255}, img.At(1, 0))
	_, _, _, a := img.At(2, 0).RGBA()
	assert.Zero(t, a)
}

func TestEncode_Fits(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))

	res, err := Encode(img, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Width)
	assert.Equal(t, 25, res.Height)
	assert.Equal(t, "image/png", res.MimeType)

	raw, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(raw[:4]))
}

func TestSave(t *testing.T) {
	g := rampGrid(t, 8, 16)
	img, err := Grayscale(g, DefaultGamma)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sentinel1", "scene_lee_filtered.png")
	require.NoError(t, Save(img, path, 4))

	back, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), back.Bounds())
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, "out/a_lee_filtered.png", PathFor("out/a_lee_filtered.tif"))
	assert.Equal(t, "noext.png", PathFor("noext"))
}
