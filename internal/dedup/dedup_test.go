package dedup

import (
	"image"
	"sync"
	"testing"

	"github.com/snapwatch/snapwatch-daemon/internal/fingerprint"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

func testImage(fill byte) *types.ImageContent {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	return &types.ImageContent{Pixels: img, Channel: types.ChannelClipboard}
}

func TestAccept_Idempotent(t *testing.T) {
	g := New(nil, nil)

	first := testImage(0x10)
	second := testImage(0x10) // byte-identical pixels, distinct allocation

	if !g.Accept(first) {
		t.Fatal("first occurrence rejected")
	}
	if g.Accept(second) {
		t.Error("byte-identical content re-emitted")
	}
	if !g.Accept(testImage(0x20)) {
		t.Error("changed content rejected")
	}
}

func TestAccept_ChannelsIndependent(t *testing.T) {
	g := New(nil, nil)

	clip := testImage(0x33)
	gest := testImage(0x33)
	gest.Channel = types.ChannelGesture

	if !g.Accept(clip) {
		t.Fatal("clipboard channel rejected new content")
	}
	// The same pixels on the other channel are still new there.
	if !g.Accept(gest) {
		t.Error("gesture channel shares state with clipboard channel")
	}
}

func TestAccept_NilPixels(t *testing.T) {
	g := New(nil, nil)
	if g.Accept(&types.ImageContent{Channel: types.ChannelClipboard}) {
		t.Error("content without pixels accepted")
	}
}

func TestSeed(t *testing.T) {
	g := New(nil, nil)
	content := testImage(0x44)

	g.Seed(types.ChannelClipboard, fingerprint.Image(content.Pixels))
	if g.Accept(content) {
		t.Error("seeded fingerprint did not suppress re-emission")
	}

	g.Seed(types.ChannelGesture, "")
	if got := g.Last(types.ChannelGesture); got != "" {
		t.Errorf("empty seed stored: %q", got)
	}
}

type recordingPersister struct {
	mu    sync.Mutex
	saved map[types.Channel]string
}

func (r *recordingPersister) SaveFingerprint(ch types.Channel, fp string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		r.saved = map[types.Channel]string{}
	}
	r.saved[ch] = fp
}

func TestAccept_PersistsAcceptedFingerprints(t *testing.T) {
	p := &recordingPersister{}
	g := New(p, nil)

	content := testImage(0x55)
	if !g.Accept(content) {
		t.Fatal("accept failed")
	}

	want := fingerprint.Image(content.Pixels)
	if p.saved[types.ChannelClipboard] != want {
		t.Errorf("persisted %q, want %q", p.saved[types.ChannelClipboard], want)
	}

	// Rejected duplicates are not re-persisted.
	p.saved = nil
	g.Accept(testImage(0x55))
	if len(p.saved) != 0 {
		t.Error("rejected duplicate was persisted")
	}
}

func TestAccept_ConcurrentProducers(t *testing.T) {
	g := New(nil, nil)

	var wg sync.WaitGroup
	var accepted sync.Map
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := testImage(0x66)
			if n == 1 {
				c.Channel = types.ChannelGesture
			}
			for j := 0; j < 100; j++ {
				if g.Accept(c) {
					if _, dup := accepted.LoadOrStore(c.Channel, true); dup {
						t.Error("same content accepted twice on one channel")
					}
				}
			}
		}(i)
	}
	wg.Wait()
}
