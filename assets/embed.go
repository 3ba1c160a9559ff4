package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/png"
)

// SampleTargetPNG contains the raw PNG bytes of the bundled practice target.
// The scale bar at the bottom left is 200 px long with a tick every 100 px,
// so it calibrates as 2 in (or 1 in per segment).
//
//go:embed sample_target.png
var SampleTargetPNG []byte

// SampleTargetImage decodes the embedded PNG into an image.Image.
func SampleTargetImage() (image.Image, error) {
	if len(SampleTargetPNG) == 0 {
		return nil, fmt.Errorf("embedded sample_target.png is empty")
	}
	img, err := png.Decode(bytes.NewReader(SampleTargetPNG))
	if err != nil {
		return nil, err
	}
	return img, nil
}
