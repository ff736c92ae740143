package textnorm

import (
	"regexp"
	"strings"
)

// DefaultShingleSize is the word k-gram length used when callers pass k <= 0.
const DefaultShingleSize = 3

var (
	urlRe       = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)
	nonLetterRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// Normalize prepares text for comparison: markup and URLs are removed, the
// text is lowercased and everything that is not a letter or a digit becomes a
// single space.
func Normalize(text string) string {
	s := strings.ToLower(StripHTML(text))
	s = urlRe.ReplaceAllString(s, " ")
	s = nonLetterRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Shingles returns the set of contiguous k-word sequences of the normalized
// text. Texts shorter than k words have no shingles.
func Shingles(text string, k int) map[string]struct{} {
	if k <= 0 {
		k = DefaultShingleSize
	}
	words := strings.Fields(Normalize(text))
	set := make(map[string]struct{})
	for i := 0; i+k <= len(words); i++ {
		set[strings.Join(words[i:i+k], " ")] = struct{}{}
	}
	return set
}

// JaccardSimilarity returns |A∩B| / |A∪B| over the k-word shingle sets of a
// and b. When either set is empty the similarity is 0.
func JaccardSimilarity(a, b string, k int) float64 {
	return jaccard(Shingles(a, k), Shingles(b, k))
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) > len(b) {
		a, b = b, a
	}
	inter := 0
	for s := range a {
		if _, ok := b[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
