package shortener

import (
	"errors"
	"strings"
)

var (
	// ErrURLRequired is returned when no URL was supplied.
	ErrURLRequired = errors.New("URL is required")
	// ErrInvalidURLFormat is returned when a URL fails the syntactic check.
	ErrInvalidURLFormat = errors.New("invalid URL format")
)

// strayPrefixes are characters commonly pasted in front of a link.
const strayPrefixes = "@!#"

// Normalize turns raw user input into an absolute URL.
//
// Surrounding whitespace is trimmed, one leading '@', '!' or '#' is dropped and
// https:// is prepended when no http(s) scheme is present. The result must
// contain at least one '.', so hosts like localhost are rejected.
func Normalize(raw string) (string, error) {
	u := strings.TrimSpace(raw)

	if u != "" && strings.IndexByte(strayPrefixes, u[0]) >= 0 {
		u = u[1:]
	}

	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}

	if !strings.Contains(u, ".") {
		return "", ErrInvalidURLFormat
	}

	return u, nil
}
