package mpris

import (
	"os"
	"path/filepath"
	"strings"
)

// coverNames lists common album art filenames in priority order.
var coverNames = []string{
	"cover.jpg", "cover.png", "cover.jpeg",
	"folder.jpg", "folder.png", "folder.jpeg",
	"front.jpg", "front.png", "front.jpeg",
}

// FindAlbumArt looks for art next to a local source: an image sharing the
// source's base name first ("track.jpg" for "track.flac"), then the common
// cover names. Returns empty string if none exists.
func FindAlbumArt(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	candidates := make([]string, 0, 2+len(coverNames))
	candidates = append(candidates, stem+".jpg", stem+".png")
	candidates = append(candidates, coverNames...)

	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
