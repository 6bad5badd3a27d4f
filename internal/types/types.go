package types

import (
	"image"
	"time"
)

// Channel identifies which producer path an image travelled through.
// Each channel keeps its own deduplication state.
type Channel string

const (
	// ChannelClipboard is the polling path: images found on the OS clipboard.
	ChannelClipboard Channel = "clipboard"
	// ChannelGesture is the push path: images captured on a double-press gesture.
	ChannelGesture Channel = "gesture"
)

// EventKind names the two event streams exposed to subscribers.
type EventKind string

const (
	// EventNewImage carries clipboard-origin images.
	EventNewImage EventKind = "new-image"
	// EventCaptured carries gesture-origin screen captures. Delivered on a
	// separate stream because downstream policy may differ by origin.
	EventCaptured EventKind = "captured"
)

// Image format tags attached to ImageContent.Format.
const (
	FormatRaster = "raster" // generic fallback, never empty downstream
	FormatPNG    = "png"
	FormatJPEG   = "jpeg"
	FormatGIF    = "gif"
	FormatWEBP   = "webp"
	FormatBMP    = "bmp"
)

// ImageContent is one decoded image moving through the pipeline. It is
// created per pipeline pass and handed off to whichever subscriber accepts
// it; nothing in the pipeline holds a reference across ticks.
type ImageContent struct {
	// ID correlates log lines and storage entries for one pipeline pass.
	ID string

	// Pixels is the decoded buffer. For animated formats this is the first
	// frame; Original carries the full encoding.
	Pixels image.Image

	Width  int
	Height int

	// ColorMode describes the decoded pixel layout ("rgba", "nrgba", ...).
	ColorMode string

	// Format is the source encoding tag. Defaulted to FormatRaster when the
	// decoder reports nothing, so downstream never sees an empty value.
	Format string

	// Original holds the encoded bytes verbatim for animated formats so
	// playback fidelity survives the pipeline. Nil for still images.
	Original []byte

	Channel Channel
	Created time.Time
}

// Animated reports whether the content retained its original encoding.
func (c *ImageContent) Animated() bool {
	return len(c.Original) > 0
}

// SnapshotKind tags the classification of one clipboard poll.
type SnapshotKind string

const (
	SnapshotEmpty     SnapshotKind = "empty"
	SnapshotImage     SnapshotKind = "image"
	SnapshotFilePaths SnapshotKind = "filepaths"
	SnapshotHTML      SnapshotKind = "html"
	SnapshotText      SnapshotKind = "text"
)

// ClipboardSnapshot is the tagged result of a single poll tick. Exactly one
// of the payload fields is meaningful, selected by Kind. Recomputed every
// tick, never persisted.
type ClipboardSnapshot struct {
	Kind  SnapshotKind
	Image []byte   // SnapshotImage: raw encoded image payload
	Paths []string // SnapshotFilePaths
	HTML  string   // SnapshotHTML
	Text  string   // SnapshotText
}

// MonitoringStatus reports the pipeline's current state for introspection.
type MonitoringStatus struct {
	IsRunning    bool      `json:"is_running"`
	GestureArmed bool      `json:"gesture_armed"`
	LastActivity time.Time `json:"last_activity"`
	ErrorCount   int       `json:"error_count"`
	LastError    string    `json:"last_error"`
}
