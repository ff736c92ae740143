package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reflow thresholds, in characters.
const (
	ShortChunkChars   = 200
	MaxParagraphChars = 250
	LongSentenceChars = 100
)

var (
	newlineSplitRe = regexp.MustCompile(`\n+`)
	sentenceEndRe  = regexp.MustCompile(`[.?!]\s+`)
	htmlTextEscape = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// FormatArticleContent reflows raw or scraped text into short paragraphs and
// wraps each one in <p>...</p>. The paragraphs are concatenated without a
// separator. Empty input yields an empty string.
func FormatArticleContent(content string) string {
	text := StripHTML(content)
	if text == "" {
		return ""
	}

	var paragraphs []string
	for _, chunk := range newlineSplitRe.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if utf8.RuneCountInString(chunk) < ShortChunkChars {
			paragraphs = append(paragraphs, chunk)
			continue
		}
		paragraphs = append(paragraphs, regroupSentences(splitSentences(chunk))...)
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(htmlTextEscape.Replace(capitalizeFirst(p)))
		b.WriteString("</p>")
	}
	return b.String()
}

// splitSentences cuts after . ? or ! when the following whitespace is
// followed by an uppercase letter or an opening quote. The punctuation stays
// with the sentence it ends.
func splitSentences(chunk string) []string {
	var sentences []string
	start := 0
	for _, m := range sentenceEndRe.FindAllStringIndex(chunk, -1) {
		next, _ := utf8.DecodeRuneInString(chunk[m[1]:])
		if !startsSentence(next) {
			continue
		}
		if s := strings.TrimSpace(chunk[start : m[0]+1]); s != "" {
			sentences = append(sentences, s)
		}
		start = m[1]
	}
	if s := strings.TrimSpace(chunk[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func startsSentence(r rune) bool {
	switch r {
	case '"', '\'', '“', '‘', '«', '¿', '¡':
		return true
	}
	return unicode.IsUpper(r)
}

// regroupSentences accumulates sentences into paragraphs, starting a new one
// when the next sentence would push the current paragraph past
// MaxParagraphChars or is itself longer than LongSentenceChars.
func regroupSentences(sentences []string) []string {
	var (
		out    []string
		acc    strings.Builder
		accLen int
	)
	flush := func() {
		if accLen > 0 {
			out = append(out, acc.String())
		}
		acc.Reset()
		accLen = 0
	}

	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		if accLen > 0 && (accLen+1+n > MaxParagraphChars || n > LongSentenceChars) {
			flush()
		}
		if accLen > 0 {
			acc.WriteByte(' ')
			accLen++
		}
		acc.WriteString(s)
		accLen += n
	}
	flush()
	return out
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
