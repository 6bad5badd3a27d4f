package clipboard

import (
	"reflect"
	"testing"

	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

func TestClassify_Priority(t *testing.T) {
	// An image payload wins even when text is present too.
	snap := Classify([]byte{0x89, 'P', 'N', 'G'}, "https://example.com/a.png")
	if snap.Kind != types.SnapshotImage {
		t.Errorf("Kind = %q, want image", snap.Kind)
	}

	snap = Classify(nil, "file:///home/user/shot.png")
	if snap.Kind != types.SnapshotFilePaths {
		t.Errorf("Kind = %q, want filepaths", snap.Kind)
	}

	snap = Classify(nil, `<img src="https://example.com/a.png">`)
	if snap.Kind != types.SnapshotHTML {
		t.Errorf("Kind = %q, want html", snap.Kind)
	}

	snap = Classify(nil, "https://example.com/a.png")
	if snap.Kind != types.SnapshotText {
		t.Errorf("Kind = %q, want text", snap.Kind)
	}

	snap = Classify(nil, "  \n ")
	if snap.Kind != types.SnapshotEmpty {
		t.Errorf("Kind = %q, want empty", snap.Kind)
	}
}

func TestFilePaths(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "gnome copied files",
			text: "copy\nfile:///home/user/a.png\nfile:///home/user/b%20c.gif",
			want: []string{"/home/user/a.png", "/home/user/b c.gif"},
		},
		{
			name: "plain absolute path",
			text: "/tmp/shot.png",
			want: []string{"/tmp/shot.png"},
		},
		{
			name: "windows path",
			text: `C:\Users\me\pic.jpg`,
			want: []string{`C:\Users\me\pic.jpg`},
		},
		{
			name: "prose mentioning a slash is not a path list",
			text: "either/or, as they say",
			want: nil,
		},
		{
			name: "mixed prose and path rejected",
			text: "/tmp/shot.png\nand some commentary",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filePaths(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("filePaths(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFirstImageRef(t *testing.T) {
	fragment := `<div><p>look</p>
		<img alt="first" src="https://example.com/one.png"/>
		<img src="https://example.com/two.gif"></div>`

	if got := FirstImageRef(fragment, ""); got != "https://example.com/one.png" {
		t.Errorf("FirstImageRef = %q", got)
	}

	// The last resolved URL is skipped in favour of the next reference.
	if got := FirstImageRef(fragment, "https://example.com/one.png"); got != "https://example.com/two.gif" {
		t.Errorf("FirstImageRef with skip = %q", got)
	}

	if got := FirstImageRef("<p>no images here</p>", ""); got != "" {
		t.Errorf("FirstImageRef on imageless markup = %q", got)
	}

	// Relative references cannot be fetched and are ignored.
	if got := FirstImageRef(`<img src="/local/a.png">`, ""); got != "" {
		t.Errorf("FirstImageRef returned relative ref %q", got)
	}
}

func TestIsImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/photo.JPEG", true},
		{"https://example.com/anim.gif?cache=1", true},
		{"https://i.imgur.com/abc123", true},
		{"https://gyazo.com/d1e2f3", true},
		{"https://imgur.com/", false},
		{"https://example.com/page.html", false},
		{"ftp://example.com/a.png", false},
		{"not a url at all", false},
		{"https://example.com/a.png and more words", false},
	}
	for _, tt := range tests {
		if got := IsImageURL(tt.url); got != tt.want {
			t.Errorf("IsImageURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
