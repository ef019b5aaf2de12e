package mpris

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestFindAlbumArt(t *testing.T) {
	dir := t.TempDir()
	coverPath := filepath.Join(dir, "cover.jpg")
	touch(t, coverPath)

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q", got, coverPath)
	}
}

func TestFindAlbumArt_NotFound(t *testing.T) {
	dir := t.TempDir()

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}

func TestFindAlbumArt_Priority(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "folder.jpg"))
	coverPath := filepath.Join(dir, "cover.jpg")
	touch(t, coverPath)

	got := FindAlbumArt(filepath.Join(dir, "track.mp3"))
	if got != coverPath {
		t.Errorf("FindAlbumArt() = %q, want %q (higher priority)", got, coverPath)
	}
}

func TestFindAlbumArt_SameNameWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cover.jpg"))
	ownPath := filepath.Join(dir, "track.png")
	touch(t, ownPath)

	got := FindAlbumArt(filepath.Join(dir, "track.flac"))
	if got != ownPath {
		t.Errorf("FindAlbumArt() = %q, want %q", got, ownPath)
	}
}

func TestFindAlbumArt_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "cover.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindAlbumArt(filepath.Join(dir, "track.mp3")); got != "" {
		t.Errorf("FindAlbumArt() = %q, want empty string", got)
	}
}
