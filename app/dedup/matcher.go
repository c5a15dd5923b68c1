package dedup

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Noise prefixes commonly added by news sources.
var noisePrefixRe = regexp.MustCompile(`(?i)^(?:breaking|update|updated|exclusive|opinion|analysis|report|watch|live|developing|just\s+in|alert)\s*[:|\-]\s*`)

// Source name suffixes like "- Bloomberg", "| Reuters".
var sourceSuffixRe = regexp.MustCompile(`(?i)\s*[-–—|]\s*(?:bloomberg|reuters|cnbc|yahoo|the\s+verge|ars\s+technica|techcrunch|wired|bbc|cnn|nyt|wsj|seeking\s+alpha|marketwatch|investing\.com|the\s+hacker\s+news|bleepingcomputer)\s*$`)

// Bracket tags like [Updated], [Exclusive].
var bracketNoiseRe = regexp.MustCompile(`(?i)\[(?:updated?|breaking|exclusive|live|developing|video|podcast|opinion)\]`)

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
var whitespaceRe = regexp.MustCompile(`\s+`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "shall", "can", "need", "must",
		"it", "its", "this", "that", "these", "those", "i", "you", "he", "she",
		"we", "they", "me", "him", "her", "us", "them", "my", "your", "his",
		"our", "their", "what", "which", "who", "whom", "how", "when", "where",
		"why", "not", "no", "nor", "so", "if", "then", "than", "too", "very",
		"just", "about", "above", "after", "before", "between", "into", "through",
		"during", "each", "few", "more", "most", "other", "some", "such", "only",
		"own", "same", "also", "as", "up", "out", "off", "over", "under", "again",
		"new", "says", "said", "report", "reports", "according", "via", "now",
		"here", "all", "any", "both", "every", "many", "much",
	} {
		stopWords[w] = struct{}{}
	}
}

// Cross-source rewordings share most keywords even when the character-level
// score stays below the threshold. The overlap coefficient (shared keywords
// over the smaller keyword set) tolerates one side spelling out what the
// other abbreviates.
const (
	keywordMinOverlap = 3
	keywordMinScore   = 0.6
)

// Matcher scores title similarity for duplicate detection.
type Matcher struct {
	threshold float64
}

func NewMatcher(threshold float64) *Matcher {
	return &Matcher{threshold: threshold}
}

// Score returns a deterministic, symmetric similarity in [0,1]: the Dice
// coefficient over character bigrams of the normalized titles.
func (m *Matcher) Score(a, b string) float64 {
	return diceCoefficient(NormalizeTitle(a), NormalizeTitle(b))
}

// Match reports whether two titles denote the same item: either the
// similarity score reaches the threshold, or the titles share enough
// meaningful keywords.
func (m *Matcher) Match(a, b string) bool {
	if m.Score(a, b) >= m.threshold {
		return true
	}

	score, overlap := keywordSimilarity(a, b)
	return overlap >= keywordMinOverlap && score >= keywordMinScore
}

// NormalizeTitle folds a title for comparison: NFKC normalization, noise
// prefixes/suffixes and bracket tags removed, punctuation stripped,
// whitespace collapsed, lowercased.
func NormalizeTitle(title string) string {
	text := norm.NFKC.String(title)
	text = bracketNoiseRe.ReplaceAllString(text, "")
	text = noisePrefixRe.ReplaceAllString(text, "")
	text = sourceSuffixRe.ReplaceAllString(text, "")
	text = punctRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Keywords extracts meaningful tokens from a title: normalized, stop words
// and tokens shorter than three runes removed.
func Keywords(title string) map[string]struct{} {
	words := strings.Fields(NormalizeTitle(title))
	keywords := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		keywords[w] = struct{}{}
	}
	return keywords
}

func keywordSimilarity(a, b string) (float64, int) {
	kwA := Keywords(a)
	kwB := Keywords(b)
	if len(kwA) == 0 || len(kwB) == 0 {
		return 0, 0
	}

	overlap := 0
	for w := range kwA {
		if _, ok := kwB[w]; ok {
			overlap++
		}
	}
	smaller := min(len(kwA), len(kwB))
	return float64(overlap) / float64(smaller), overlap
}

func diceCoefficient(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	bigramsA := bigrams(a)
	bigramsB := bigrams(b)
	if len(bigramsA) == 0 || len(bigramsB) == 0 {
		return 0
	}

	shared := 0
	for bg, countA := range bigramsA {
		if countB, ok := bigramsB[bg]; ok {
			shared += min(countA, countB)
		}
	}

	totalA := 0
	for _, c := range bigramsA {
		totalA += c
	}
	totalB := 0
	for _, c := range bigramsB {
		totalB += c
	}

	return 2 * float64(shared) / float64(totalA+totalB)
}

func bigrams(s string) map[string]int {
	runes := []rune(s)
	grams := make(map[string]int)
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
