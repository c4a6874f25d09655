package render

import (
	"bytes"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// rsvgBinary is the converter invoked for PDF and PNG output.
var rsvgBinary = "rsvg-convert"

// ToPDF converts an SVG drawing to PDF with librsvg's rsvg-convert.
// A missing converter yields NOT_FOUND.
func ToPDF(svg []byte) ([]byte, error) {
	return convertSVG(svg, "pdf")
}

// ToPNG converts an SVG drawing to PNG. Scale multiplies the drawing's
// pixel size and must be positive; 2 doubles the resolution.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.CodeInvalidInput, "png scale %g must be positive", scale)
	}
	return convertSVG(svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', -1, 64))
}

func convertSVG(svg []byte, format string, args ...string) ([]byte, error) {
	if len(bytes.TrimSpace(svg)) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "no SVG to convert to %s", format)
	}
	path, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.Wrap(errors.CodeNotFound, err,
			"%s export needs %s (brew install librsvg, apt install librsvg2-bin)", format, rsvgBinary)
	}

	cmd := exec.Command(path, append([]string{"--format", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "%s to %s: %s",
			rsvgBinary, format, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
