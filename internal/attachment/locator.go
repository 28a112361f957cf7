package attachment

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// IsRemote reports whether locator is a fully-qualified http(s) URL rather
// than a bare filename in the local content directory.
func IsRemote(locator string) bool {
	u, err := url.Parse(locator)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// PublicID extracts the remote identifier from a delivery URL: the path
// segments after "upload", without a leading version segment ("v123") and
// without the file extension.
//
//	https://res.cloudinary.com/demo/image/upload/v1760788264/item-flow/abc.jpg -> item-flow/abc
func PublicID(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("parse locator: %w", err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, s := range segments {
		if s == "upload" {
			segments = segments[i+1:]
			break
		}
	}
	if len(segments) > 1 && isVersionSegment(segments[0]) {
		segments = segments[1:]
	}

	id := strings.Join(segments, "/")
	id = strings.TrimSuffix(id, path.Ext(id))
	if id == "" {
		return "", fmt.Errorf("locator %q has no public id", locator)
	}
	return id, nil
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
