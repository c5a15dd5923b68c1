package dedup

import (
	"net/url"
	"strings"
)

// Tracking parameters stripped before URL comparison.
var trackingParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"ref":          {},
	"source":       {},
	"fbclid":       {},
	"gclid":        {},
	"mc_cid":       {},
	"mc_eid":       {},
}

// NormalizeURL canonicalizes an address into a dedup comparison key:
// scheme dropped, host lowercased without a www prefix, tracking query
// parameters removed, fragment and trailing slash stripped. Input that
// cannot be parsed as a URL is returned unchanged, degrading to
// exact-string comparison.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return raw
	}

	host := strings.ToLower(parsed.Host)
	host = strings.TrimPrefix(host, "www.")

	query := parsed.Query()
	for key := range query {
		if _, tracked := trackingParams[strings.ToLower(key)]; tracked {
			query.Del(key)
		}
	}

	path := strings.TrimRight(parsed.Path, "/")

	key := "//" + host + path
	if encoded := query.Encode(); encoded != "" {
		key += "?" + encoded
	}
	return key
}
