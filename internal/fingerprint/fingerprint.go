// Package fingerprint derives cheap change-detection digests from decoded
// image data. The digest covers only a bounded prefix of the pixel bytes, so
// two images that agree on the prefix are treated as the same content. That
// trade is deliberate: a missed duplicate costs one skipped frame, while
// byte-identical input always produces an identical digest. Never use these
// digests as a correctness-critical identity.
package fingerprint

import (
	"image"
	"image/color"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// prefixLimit bounds how many bytes feed the digest. Large captures hash in
// constant time.
const prefixLimit = 64 * 1024

// Sum digests a bounded prefix of data and renders it as a CIDv1 raw string,
// suitable for log fields and storage keys. Empty input yields "".
func Sum(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > prefixLimit {
		data = data[:prefixLimit]
	}
	h, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// Cannot happen with SHA2_256.
		panic(err)
	}
	return cid.NewCidV1(cid.Raw, h).String()
}

// Image digests the decoded pixel bytes of img. Common decoded layouts hand
// over their backing slice directly; anything else is sampled pixel by pixel
// until the prefix limit is reached.
func Image(img image.Image) string {
	if img == nil {
		return ""
	}
	switch p := img.(type) {
	case *image.RGBA:
		return Sum(p.Pix)
	case *image.NRGBA:
		return Sum(p.Pix)
	case *image.Gray:
		return Sum(p.Pix)
	case *image.Paletted:
		return Sum(p.Pix)
	case *image.CMYK:
		return Sum(p.Pix)
	case *image.YCbCr:
		return Sum(ycbcrPrefix(p))
	}
	return Sum(samplePrefix(img))
}

func ycbcrPrefix(p *image.YCbCr) []byte {
	buf := make([]byte, 0, prefixLimit)
	for _, plane := range [][]byte{p.Y, p.Cb, p.Cr} {
		if remaining := prefixLimit - len(buf); len(plane) > remaining {
			plane = plane[:remaining]
		}
		buf = append(buf, plane...)
		if len(buf) >= prefixLimit {
			break
		}
	}
	return buf
}

func samplePrefix(img image.Image) []byte {
	bounds := img.Bounds()
	buf := make([]byte, 0, prefixLimit)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
			if len(buf) >= prefixLimit {
				return buf
			}
		}
	}
	return buf
}
