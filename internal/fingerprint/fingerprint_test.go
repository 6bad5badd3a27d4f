package fingerprint

import (
	"bytes"
	"image"
	"strings"
	"testing"
)

func TestSum_Deterministic(t *testing.T) {
	data := []byte("the same bytes every time")
	if Sum(data) != Sum(data) {
		t.Error("identical input produced different digests")
	}
	if Sum(data) == Sum([]byte("different bytes")) {
		t.Error("different input produced the same digest")
	}
}

func TestSum_Empty(t *testing.T) {
	if got := Sum(nil); got != "" {
		t.Errorf("Sum(nil) = %q, want empty", got)
	}
	if got := Sum([]byte{}); got != "" {
		t.Errorf("Sum(empty) = %q, want empty", got)
	}
}

func TestSum_PrefixBounded(t *testing.T) {
	// Two buffers identical through the prefix limit but diverging after it
	// must digest equally: that is the documented collision tolerance.
	a := bytes.Repeat([]byte{0xAB}, prefixLimit+128)
	b := bytes.Repeat([]byte{0xAB}, prefixLimit+128)
	copy(b[prefixLimit:], bytes.Repeat([]byte{0xCD}, 128))

	if Sum(a) != Sum(b) {
		t.Error("divergence past the prefix limit changed the digest")
	}

	// Divergence inside the prefix must change it.
	c := bytes.Repeat([]byte{0xAB}, prefixLimit+128)
	c[10] = 0x00
	if Sum(a) == Sum(c) {
		t.Error("divergence inside the prefix did not change the digest")
	}
}

func TestSum_CIDRendering(t *testing.T) {
	got := Sum([]byte("render me"))
	if !strings.HasPrefix(got, "b") {
		t.Errorf("expected a CIDv1 base32 string, got %q", got)
	}
}

func TestImage_MatchesPixelBytes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = byte(i)
	}
	if Image(img) != Sum(img.Pix) {
		t.Error("RGBA image digest does not match its pixel-byte digest")
	}
}

func TestImage_NilAndSampled(t *testing.T) {
	if got := Image(nil); got != "" {
		t.Errorf("Image(nil) = %q, want empty", got)
	}

	// RGBA64 is not one of the fast-path layouts; it exercises sampling.
	a := image.NewRGBA64(image.Rect(0, 0, 3, 3))
	b := image.NewRGBA64(image.Rect(0, 0, 3, 3))
	if Image(a) == "" {
		t.Error("non-empty image digested to empty")
	}
	if Image(a) != Image(b) {
		t.Error("identical sampled images digested differently")
	}
}
