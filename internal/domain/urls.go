package domain

import (
	"net/url"
	"strings"
)

// QueryPlaceholder is substituted by the percent-encoded query in engine URLs.
const QueryPlaceholder = "%s"

// NormalizeURL prefixes "https://" unless the input already starts with
// "http" (any case).
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "http") {
		return raw
	}
	return "https://" + raw
}

// Origin returns scheme://host[:port] for an absolute URL, or "" when the URL
// cannot be parsed or has no host.
func Origin(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// FaviconURL returns {origin}/favicon.ico, or "" if no origin can be derived.
func FaviconURL(raw string) string {
	origin := Origin(raw)
	if origin == "" {
		return ""
	}
	return origin + "/favicon.ico"
}

// EscapeQuery percent-encodes s like encodeURIComponent: every UTF-8 byte
// is escaped except ASCII letters, digits and -_.!~*'(). Spaces become %20.
func EscapeQuery(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if componentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func componentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// BuildSearchURL substitutes the encoded query into the first "%s" of
// template. Templates without a placeholder are returned unchanged.
func BuildSearchURL(template, query string) string {
	return strings.Replace(template, QueryPlaceholder, EscapeQuery(query), 1)
}

// PublicPath prefixes root-relative asset paths with base. Absolute URLs and
// relative paths pass through.
func PublicPath(base, p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return p
	}
	return strings.TrimSuffix(base, "/") + p
}
