// Package imaging decodes clipboard, file and downloaded payloads into the
// pipeline's ImageContent representation.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Register the decoders the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// imageExtensions recognised when scanning clipboard file paths.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// IsImagePath reports whether path carries a recognised image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// AnimatedFormat reports whether a format tag can carry multiple frames. For
// these the pipeline keeps the encoded bytes verbatim so playback fidelity
// survives the hand-off.
func AnimatedFormat(format string) bool {
	return format == types.FormatGIF || format == types.FormatWEBP
}

// Decode turns encoded bytes into an ImageContent. Animated formats retain
// data verbatim in the Original field; the decoded buffer is only their first
// frame. A decoder that reports no format is tagged with the generic raster
// tag so downstream never sees an empty value.
func Decode(data []byte) (*types.ImageContent, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecodeFailure, err)
	}
	if format == "" {
		format = types.FormatRaster
	}

	content := &types.ImageContent{
		Pixels:    img,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		ColorMode: colorMode(img),
		Format:    format,
		Created:   time.Now(),
	}
	if AnimatedFormat(format) {
		content.Original = append([]byte(nil), data...)
	}
	return content, nil
}

// DecodeFile reads and decodes one file from disk.
func DecodeFile(path string) (*types.ImageContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecodeFailure, err)
	}
	return Decode(data)
}

func colorMode(img image.Image) string {
	switch img.(type) {
	case *image.RGBA:
		return "rgba"
	case *image.NRGBA:
		return "nrgba"
	case *image.Gray:
		return "gray"
	case *image.Paletted:
		return "paletted"
	case *image.YCbCr:
		return "ycbcr"
	case *image.CMYK:
		return "cmyk"
	default:
		return "rgba"
	}
}
