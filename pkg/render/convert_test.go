package render

import (
	"context"
	"testing"

	"github.com/matzehuels/modlaunch/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`

func TestConvertMissingTool(t *testing.T) {
	old := Converter
	Converter = "modlaunch-no-such-converter"
	defer func() { Converter = old }()

	ctx := context.Background()
	if _, err := ToPDF(ctx, []byte(tinySVG)); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPNG(ctx, []byte(tinySVG), 1); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG() error = %v, want UNSUPPORTED", err)
	}
}

func TestToPNGRejectsBadScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		if _, err := ToPNG(context.Background(), []byte(tinySVG), scale); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ToPNG(scale %g) error = %v, want INVALID_INPUT", scale, err)
		}
	}
}
