package ytvideo

import (
	"errors"
	"net/url"
	"strings"
)

var ErrUnsupportedURL = errors.New("unsupported video url")

// ExtractId returns the video id from one of the accepted url shapes:
// youtu.be/<id>, youtube.com/watch?v=<id>, youtube.com/embed/<id>.
func ExtractId(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", ErrUnsupportedURL
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", ErrUnsupportedURL
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if id == "" || strings.Contains(id, "/") {
			return "", ErrUnsupportedURL
		}
		return id, nil
	case "youtube.com", "m.youtube.com":
		if id := u.Query().Get("v"); id != "" {
			return id, nil
		}
		if rest, ok := strings.CutPrefix(strings.Trim(u.Path, "/"), "embed/"); ok {
			if rest != "" && !strings.Contains(rest, "/") {
				return rest, nil
			}
		}
		return "", ErrUnsupportedURL
	}

	return "", ErrUnsupportedURL
}
