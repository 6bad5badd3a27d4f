package clipboard

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/snapwatch/snapwatch-daemon/internal/imaging"
	"github.com/snapwatch/snapwatch-daemon/internal/types"
)

// Hosts that serve a raw image from URLs without an image extension.
var imageHosts = map[string]bool{
	"i.imgur.com": true,
	"imgur.com":   true,
	"i.gyazo.com": true,
	"gyazo.com":   true,
	"prnt.sc":     true,
	"i.redd.it":   true,
}

// Classify reduces one poll tick's payloads to a tagged snapshot. Exactly one
// classification wins, in priority order: direct image, file-path list,
// markup fragment, plain text.
func Classify(imageData []byte, text string) types.ClipboardSnapshot {
	if len(imageData) > 0 {
		return types.ClipboardSnapshot{Kind: types.SnapshotImage, Image: imageData}
	}
	if paths := filePaths(text); len(paths) > 0 {
		return types.ClipboardSnapshot{Kind: types.SnapshotFilePaths, Paths: paths}
	}
	if isMarkup(text) {
		return types.ClipboardSnapshot{Kind: types.SnapshotHTML, HTML: text}
	}
	if strings.TrimSpace(text) != "" {
		return types.ClipboardSnapshot{Kind: types.SnapshotText, Text: strings.TrimSpace(text)}
	}
	return types.ClipboardSnapshot{Kind: types.SnapshotEmpty}
}

// filePaths extracts local file paths from text shaped like a copied file
// list: newline-separated file:// URIs (the GNOME/KDE convention) or absolute
// paths. Returns nil when any line does not look like a path.
func filePaths(text string) []string {
	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "copy" || line == "cut" {
			// x-special/gnome-copied-files puts the verb on the first line.
			continue
		}
		switch {
		case strings.HasPrefix(line, "file://"):
			u, err := url.Parse(line)
			if err != nil {
				return nil
			}
			paths = append(paths, u.Path)
		case strings.HasPrefix(line, "/"), isWindowsPath(line):
			paths = append(paths, line)
		default:
			return nil
		}
	}
	return paths
}

func isWindowsPath(s string) bool {
	return len(s) > 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/')
}

// isMarkup reports whether text looks like an HTML fragment rather than
// prose. Markup goes through the img-reference extractor; everything else is
// treated as plain text.
func isMarkup(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") && strings.Contains(t, ">")
}

// FirstImageRef tokenizes a markup fragment and returns the first <img> source
// not equal to skip, or "".
func FirstImageRef(fragment, skip string) string {
	tz := html.NewTokenizer(strings.NewReader(fragment))
	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tz.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}
		for {
			key, val, more := tz.TagAttr()
			if string(key) == "src" {
				src := string(val)
				if src != "" && src != skip && strings.HasPrefix(src, "http") {
					return src
				}
			}
			if !more {
				break
			}
		}
	}
}

// IsImageURL reports whether text is a plain-text URL pointing at an image,
// either by extension or by a small set of known image-hosting URL shapes.
func IsImageURL(text string) bool {
	if strings.ContainsAny(text, " \n\t") {
		return false
	}
	u, err := url.ParseRequestURI(text)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	if imaging.IsImagePath(u.Path) {
		return true
	}
	return imageHosts[strings.ToLower(u.Host)] && len(strings.Trim(u.Path, "/")) > 0
}
