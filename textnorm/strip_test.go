package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>Hello</p><p>World</p>", "Hello\n\nWorld"},
		{"line breaks", "uno<br>dos<br/>tres<BR class=\"x\" />cuatro", "uno\n\ndos\n\ntres\n\ncuatro"},
		{"inline tags dropped", "<p>El <strong>gol</strong> de <a href=\"/x\">Messi</a></p>", "El gol de Messi"},
		{"entities", "<p>Tom &amp; Jerry&nbsp;&quot;ok&quot; &#39;a&#39; &lt;3 &#225;</p>", "Tom & Jerry \"ok\" 'a' <3 á"},
		{"spaces and tabs", "a \t  b\t\tc", "a b c"},
		{"blank line runs", "<div>a</div>\n\n\n<div>b</div>\n", "a\n\nb"},
		{"headings and lists", "<h2>Titular</h2><ul><li>uno</li><li>dos</li></ul>", "Titular\n\nuno\n\ndos"},
		{"table cells", "<table><tr><td>1</td><td>2</td></tr></table>", "1\n\n2"},
		{"only markup", "<div><span></span></div>", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, StripHTML(c.in))
		})
	}
}

func TestStripHTMLIsIdempotent(t *testing.T) {
	fragments := []string{
		"<p>Hello</p><p>World</p>",
		"<div>  Primera   línea <br> segunda</div>\r\n<p>tercera</p>",
		"<article><h1>Final</h1><p>River &amp; Boca</p><p>  </p><p>Resultado: 2-1</p></article>",
		"texto plano\n\n\n\ncon saltos\t\ty tabs",
		"&nbsp;&nbsp;<p>espacios</p>&nbsp;",
		"<ul><li>a</li><li>b</li></ul><br/><br/>fin",
	}

	for _, f := range fragments {
		once := StripHTML(f)
		assert.Equal(t, once, StripHTML(once), "fragment %q", f)
		assert.NotRegexp(t, `<[^>]*>`, once)
	}
}

func TestStripHTMLEncodedMarkupSurvivesOnePass(t *testing.T) {
	in := "a &lt;b&gt;bold&lt;/b&gt; c"
	once := StripHTML(in)
	assert.Equal(t, "a <b>bold</b> c", once)
	assert.Equal(t, "a bold c", StripHTML(once))
}

func TestStripTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"<b>Hola</b><i>mundo</i>", "Hola mundo"},
		{"  uno \n\n dos\t tres ", "uno dos tres"},
		{"a&nbsp;&nbsp;b &amp; c", "a b & c"},
		{"<span>&#8220;cita&#8221;</span>", "“cita”"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, StripTags(c.in), "StripTags(%q)", c.in)
	}
}
