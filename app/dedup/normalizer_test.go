package dedup

import (
	"testing"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips tracking parameters",
			input:    "https://example.com/article?utm_source=rss&utm_medium=feed",
			expected: "//example.com/article",
		},
		{
			name:     "strips www prefix",
			input:    "https://www.example.com/article",
			expected: "//example.com/article",
		},
		{
			name:     "strips trailing slash",
			input:    "https://example.com/article/",
			expected: "//example.com/article",
		},
		{
			name:     "drops scheme",
			input:    "http://example.com/article",
			expected: "//example.com/article",
		},
		{
			name:     "drops fragment",
			input:    "https://example.com/article#comments",
			expected: "//example.com/article",
		},
		{
			name:     "lowercases host only",
			input:    "https://Example.COM/Article/Path",
			expected: "//example.com/Article/Path",
		},
		{
			name:     "keeps meaningful query parameters",
			input:    "https://example.com/search?q=python&utm_campaign=weekly",
			expected: "//example.com/search?q=python",
		},
		{
			name:     "strips clid and mailchimp parameters",
			input:    "https://example.com/a?fbclid=abc&gclid=def&mc_cid=x&mc_eid=y&ref=hn&source=tw",
			expected: "//example.com/a",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  https://example.com/article  ",
			expected: "//example.com/article",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURL(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNormalizeURLDegradesToRawString(t *testing.T) {
	inputs := []string{
		"not a url at all",
		"",
		"just/a/path",
	}

	for _, input := range inputs {
		if got := NormalizeURL(input); got != input {
			t.Errorf("Expected unparseable input %q returned unchanged, got %q", input, got)
		}
	}
}

func TestNormalizeURLVariantsCollapse(t *testing.T) {
	variants := []string{
		"https://www.example.com/news/story?utm_source=feed",
		"http://example.com/news/story/",
		"https://example.com/news/story#top",
	}

	first := NormalizeURL(variants[0])
	for _, v := range variants[1:] {
		if got := NormalizeURL(v); got != first {
			t.Errorf("Expected %q to normalize to %q, got %q", v, first, got)
		}
	}
}
