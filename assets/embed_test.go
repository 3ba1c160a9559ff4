package assets

import "testing"

func TestSampleTargetImage(t *testing.T) {
	img, err := SampleTargetImage()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Fatalf("unexpected bounds %v", b)
	}
}
