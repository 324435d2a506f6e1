package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func pngDataURL(t *testing.T, w, h int) string {
	t.Helper()
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, w, h))
}

func TestParseImageDataURL(t *testing.T) {
	raw, mime, err := ParseImageDataURL(pngDataURL(t, 4, 4), SignatureMimes, 1<<20)
	if err != nil {
		t.Fatalf("valid data url rejected: %v", err)
	}
	if mime != "image/png" || len(raw) == 0 {
		t.Fatalf("decoded %d bytes as %q", len(raw), mime)
	}

	cases := []struct {
		name  string
		value string
		max   int
		want  string
	}{
		{"empty", "   ", 0, "empty data url"},
		{"no prefix", "http://example.com/sig.png", 0, "invalid data url prefix"},
		{"not base64", "data:image/png,rawbytes", 0, "data url must be base64"},
		{"bad payload", "data:image/png;base64,!!!not-base64!!!", 0, "unable to decode data url"},
		{"svg rejected", "data:image/svg+xml;base64,PHN2Zz48L3N2Zz4=", 0, "unsupported data url mime type"},
		{
			"mime mismatch",
			"data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 2, 2)),
			0,
			"data url mime does not match content",
		},
		{
			"too large",
			pngDataURL(t, 64, 64),
			16,
			"data url exceeds max size",
		},
	}
	for _, tc := range cases {
		_, _, err := ParseImageDataURL(tc.value, SignatureMimes, tc.max)
		if err == nil || err.Error() != tc.want {
			t.Errorf("%s: err = %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestScaleImageToFit(t *testing.T) {
	out, w, h, err := ScaleImageToFit(testPNG(t, 200, 80), 160, 56)
	if err != nil {
		t.Fatalf("scale failed: %v", err)
	}
	if w != 140 || h != 56 {
		t.Fatalf("scaled to %dx%d, want 140x56", w, h)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not png: %v", err)
	}
	if cfg.Width != 140 || cfg.Height != 56 {
		t.Fatalf("encoded size %dx%d, want 140x56", cfg.Width, cfg.Height)
	}

	_, w, h, err = ScaleImageToFit(testPNG(t, 40, 20), 160, 56)
	if err != nil {
		t.Fatalf("scale failed: %v", err)
	}
	if w != 40 || h != 20 {
		t.Fatalf("small images must not be upscaled, got %dx%d", w, h)
	}

	if _, _, _, err := ScaleImageToFit([]byte("not an image"), 160, 56); err == nil {
		t.Fatalf("garbage input must fail")
	}
}
