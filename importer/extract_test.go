package importer

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func para(i int) string {
	return fmt.Sprintf("Párrafo %02d con suficiente texto para superar el umbral mínimo de sesenta caracteres.", i)
}

func page(head, body string) string {
	return "<!doctype html><html><head>" + head + "</head><body>" + body + "</body></html>"
}

func TestExtractTitlePrecedence(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")
	cases := []struct {
		name string
		head string
		want string
	}{
		{"og wins over title", `<title>Título HTML</title><meta property="og:title" content="Título OG"><meta name="twitter:title" content="Título TW">`, "Título OG"},
		{"twitter before title", `<title>Título HTML</title><meta name="twitter:title" content="Título TW">`, "Título TW"},
		{"title fallback", `<title>  River &amp;   Boca </title>`, "River & Boca"},
		{"empty og skipped", `<meta property="og:title" content="  "><title>Plan B</title>`, "Plan B"},
		{"case and quoting", `<META Property='OG:Title' CONTENT='Mayúsculas'><title>x</title>`, "Mayúsculas"},
		{"attribute order", `<meta content="Orden" property="og:title">`, "Orden"},
		{"none", ``, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			res := Extract(page(c.head, ""), base)
			assert.Equal(t, c.want, res.Title)
		})
	}
}

func TestExtractExcerptPrecedence(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")

	res := Extract(page(`<meta name="twitter:description" content="tw"><meta name="description" content="desc"><meta property="og:description" content="og">`, ""), base)
	assert.Equal(t, "og", res.Excerpt)

	res = Extract(page(`<meta name="twitter:description" content="tw"><meta name="description" content="desc">`, ""), base)
	assert.Equal(t, "desc", res.Excerpt)

	res = Extract(page(`<meta name="twitter:description" content="tw">`, ""), base)
	assert.Equal(t, "tw", res.Excerpt)
}

func TestExtractImageAndCanonical(t *testing.T) {
	base := mustURL(t, "https://example.com/deportes/nota?id=4")

	res := Extract(page(`<meta property="og:image" content="../img/a.png"><meta name="twitter:image" content="https://cdn.example.com/b.png"><link rel="Canonical" href="/deportes/nota-4">`, ""), base)
	assert.Equal(t, "https://example.com/img/a.png", res.ImageURL)
	assert.Equal(t, "https://example.com/deportes/nota-4", res.SourceURL)

	res = Extract(page(`<meta name="twitter:image" content="//cdn.example.com/b.png"><meta property="og:url" content="https://www.example.com/n/4">`, ""), base)
	assert.Equal(t, "https://cdn.example.com/b.png", res.ImageURL)
	assert.Equal(t, "https://www.example.com/n/4", res.SourceURL)

	res = Extract(page(`<title>x</title>`, ""), base)
	assert.Equal(t, "", res.ImageURL)
	assert.Equal(t, base.String(), res.SourceURL)
}

func TestExtractParagraphFiltering(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")
	body := `<article>
<p>` + para(1) + `</p>
<p>Suscríbete a nuestro newsletter para recibir más contenido como este todos los días</p>
<p>Corto.</p>
<p>   </p>
<p>Aceptamos cookies para mejorar la experiencia de navegación de todos los usuarios del sitio.</p>
<p>Inicia sesión o regístrate para comentar esta nota con el resto de la comunidad de lectores.</p>
<!-- <p>` + para(9) + `</p> -->
<p>` + para(2) + `</p>
</article>`

	res := Extract(page("", body), base)
	assert.Equal(t, para(1)+"\n\n"+para(2), res.ContentText)
	assert.NotContains(t, res.ContentText, "Suscríbete")
	assert.NotContains(t, res.ContentText, para(9))
}

func TestExtractScopePreference(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")

	res := Extract(page("", `<p>`+para(1)+`</p><main><p>`+para(2)+`</p><article><p>`+para(3)+`</p></article></main>`), base)
	assert.Equal(t, para(3), res.ContentText)

	res = Extract(page("", `<p>`+para(1)+`</p><main><p>`+para(2)+`</p></main>`), base)
	assert.Equal(t, para(2), res.ContentText)

	res = Extract(page("", `<div><p>`+para(1)+`</p></div>`), base)
	assert.Equal(t, para(1), res.ContentText)
}

func TestExtractInlineMarkupAndEntities(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")
	res := Extract(page("", `<article><p>El<b>equipo</b> de &quot;Los Pumas&quot; ganó&nbsp;&nbsp;el partido &amp; la copa del torneo <a href="/x">regional</a>.</p></article>`), base)
	assert.Equal(t, `El equipo de "Los Pumas" ganó el partido & la copa del torneo regional .`, res.ContentText)
}

func TestExtractFallbackWithoutParagraphs(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")
	body := `<div>Texto sin párrafos <b>pero</b> con contenido</div><script>var x = "<p>no</p>";</script><style>p{}</style><noscript>activa js</noscript>`
	res := Extract(page("", body), base)
	assert.Equal(t, "Texto sin párrafos pero con contenido", res.ContentText)
}

func TestExtractParagraphLimits(t *testing.T) {
	base := mustURL(t, "https://example.com/nota")

	var b strings.Builder
	for i := 0; i < 45; i++ {
		b.WriteString("<p>" + para(i) + "</p>")
	}
	res := Extract(page("", "<article>"+b.String()+"</article>"), base)
	parts := strings.Split(res.ContentText, "\n\n")
	require.Len(t, parts, DefaultMaxParagraphs)
	assert.Equal(t, para(0), parts[0])
	assert.Equal(t, para(29), parts[29])

	b.Reset()
	long := strings.Repeat("palabra ", 250)
	for i := 0; i < 30; i++ {
		b.WriteString("<p>" + long + "</p>")
	}
	res = Extract(page("", "<article>"+b.String()+"</article>"), base)
	assert.Equal(t, DefaultMaxContentChars, utf8.RuneCountInString(res.ContentText))
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "abc", truncateChars("abc", 5))
	assert.Equal(t, "ab", truncateChars("abc", 2))
	assert.Equal(t, "ñá", truncateChars("ñáé", 2))
	assert.Equal(t, "", truncateChars("ñ", 0))
}
