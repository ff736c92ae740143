package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sentence builds a sentence of exactly n characters starting with an
// uppercase letter and ending with a period.
func sentence(n int) string {
	return "S" + strings.Repeat("x", n-2) + "."
}

func paragraphsOf(html string) []string {
	html = strings.TrimPrefix(html, "<p>")
	html = strings.TrimSuffix(html, "</p>")
	if html == "" {
		return nil
	}
	return strings.Split(html, "</p><p>")
}

func TestFormatArticleContentEmpty(t *testing.T) {
	assert.Equal(t, "", FormatArticleContent(""))
	assert.Equal(t, "", FormatArticleContent("   \n\n  "))
	assert.Equal(t, "", FormatArticleContent("<div></div>"))
}

func TestFormatArticleContentShortChunks(t *testing.T) {
	got := FormatArticleContent("<p>uno</p><p>dos y tres</p>")
	assert.Equal(t, "<p>Uno</p><p>Dos y tres</p>", got)
}

func TestFormatArticleContentKeepsShortChunkVerbatim(t *testing.T) {
	// Under the chunk threshold sentences are not split even with boundaries.
	in := "primera frase. Segunda frase. Tercera frase."
	assert.Equal(t, "<p>Primera frase. Segunda frase. Tercera frase.</p>", FormatArticleContent(in))
}

func TestFormatArticleContentRegroupsBySize(t *testing.T) {
	sentences := make([]string, 10)
	for i := range sentences {
		sentences[i] = sentence(60)
	}
	got := paragraphsOf(FormatArticleContent(strings.Join(sentences, " ")))

	require.Len(t, got, 3)
	assert.Equal(t, strings.Join(sentences[0:4], " "), got[0])
	assert.Equal(t, strings.Join(sentences[4:8], " "), got[1])
	assert.Equal(t, strings.Join(sentences[8:10], " "), got[2])
	for _, p := range got {
		assert.LessOrEqual(t, len(p), MaxParagraphChars)
	}
}

func TestFormatArticleContentLongSentenceStartsParagraph(t *testing.T) {
	short1, long, short2 := sentence(60), sentence(150), sentence(60)
	got := paragraphsOf(FormatArticleContent(short1 + " " + long + " " + short2))

	require.Len(t, got, 2)
	assert.Equal(t, short1, got[0])
	assert.Equal(t, long+" "+short2, got[1])
}

func TestFormatArticleContentSentenceBoundaries(t *testing.T) {
	// A lowercase continuation after a period is not a boundary; a quote is.
	a := "El club confirmó el fichaje del delantero por tres temporadas, aprox. cinco millones de euros según fuentes cercanas a la directiva del equipo."
	b := "\"Estamos muy contentos con la incorporación\", dijo el presidente en rueda de prensa tras la presentación."
	got := paragraphsOf(FormatArticleContent(a + " " + b))

	require.Len(t, got, 2)
	assert.Equal(t, a, got[0])
	assert.Equal(t, `"Estamos muy contentos con la incorporación", dijo el presidente en rueda de prensa tras la presentación.`, got[1])
}

func TestFormatArticleContentEscapesText(t *testing.T) {
	got := FormatArticleContent("river &amp; boca &lt;3")
	assert.Equal(t, "<p>River &amp; boca &lt;3</p>", got)
	assert.Equal(t, "River & boca <3", StripHTML(got))
}
