package render

import (
	"math"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/openmodel/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNGScale(t *testing.T) {
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := ToPNG([]byte(square), scale)
		assert.True(t, errors.Is(err, errors.CodeInvalidInput), "scale %g", scale)
	}
}

func TestConvertEmpty(t *testing.T) {
	_, err := ToPDF(nil)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestConvertMissingBinary(t *testing.T) {
	saved := rsvgBinary
	rsvgBinary = "openmodel-no-such-converter"
	t.Cleanup(func() { rsvgBinary = saved })

	_, err := ToPDF([]byte(square))
	assert.True(t, errors.Is(err, errors.CodeNotFound))
	_, err = ToPNG([]byte(square), 2)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestConvert(t *testing.T) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF([]byte(square))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	png, err := ToPNG([]byte(square), 2)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
