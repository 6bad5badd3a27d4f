package platform

import (
	"fmt"

	xclip "golang.design/x/clipboard"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// DesignClipboard reads images and text through golang.design/x/clipboard,
// the primary backend on every desktop OS.
type DesignClipboard struct{}

// NewDesignClipboard initialises the underlying clipboard library. On
// environments without a usable display server this fails and the caller
// falls back to the text-only backend.
func NewDesignClipboard() (*DesignClipboard, error) {
	if err := xclip.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrClipboardUnavailable, err)
	}
	return &DesignClipboard{}, nil
}

func (c *DesignClipboard) ReadImage() ([]byte, error) {
	return xclip.Read(xclip.FmtImage), nil
}

func (c *DesignClipboard) ReadText() (string, error) {
	return string(xclip.Read(xclip.FmtText)), nil
}

func (c *DesignClipboard) Name() string { return "golang.design" }
