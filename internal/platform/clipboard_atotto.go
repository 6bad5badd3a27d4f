package platform

import (
	"fmt"

	atottoClip "github.com/atotto/clipboard"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// AtottoClipboard is the text-only fallback, used when the primary backend
// cannot initialise. Image payloads are simply invisible through it; file
// paths, HTML fragments and image URLs still arrive as text.
type AtottoClipboard struct{}

func NewAtottoClipboard() *AtottoClipboard {
	return &AtottoClipboard{}
}

func (c *AtottoClipboard) ReadImage() ([]byte, error) {
	return nil, nil
}

func (c *AtottoClipboard) ReadText() (string, error) {
	text, err := atottoClip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrClipboardUnavailable, err)
	}
	return text, nil
}

func (c *AtottoClipboard) Name() string { return "atotto" }
