package loader

import "strings"

// Kind distinguishes local files from remote URLs.
type Kind int

const (
	KindFile Kind = iota
	KindURL
)

// String returns "file" or "url".
func (k Kind) String() string {
	if k == KindURL {
		return "url"
	}
	return "file"
}

// Descriptor names the asset to load.
type Descriptor struct {
	Kind   Kind
	Origin string
}

// File describes a local path.
func File(path string) Descriptor {
	return Descriptor{Kind: KindFile, Origin: path}
}

// URL describes a remote http or https address.
func URL(u string) Descriptor {
	return Descriptor{Kind: KindURL, Origin: u}
}

// Resolve routes http:// and https:// sources to URL and anything else to
// File. A file:// prefix is stripped.
func Resolve(src string) Descriptor {
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return URL(src)
	case strings.HasPrefix(lower, "file://"):
		return File(src[len("file://"):])
	default:
		return File(src)
	}
}

// String returns the origin.
func (d Descriptor) String() string {
	return d.Origin
}
