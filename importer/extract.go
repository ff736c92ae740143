package importer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"cronos/textnorm"
	"cronos/types"
)

// boilerplateRe matches cookie, subscription, newsletter, advertising and
// account prompts in Spanish.
var boilerplateRe = regexp.MustCompile(`(?i)(cookies?\b|suscr[ií]b(?:e|ete|irte|ase)\b|suscripci[oó]n|newsletter|bolet[ií]n|publicidad|inici(?:a|ar) sesi[oó]n|reg[ií]str(?:ate|arse)\b|cre(?:a|ar) (?:una|tu) cuenta)`)

// Extract derives an ImportResult from raw HTML using the default limits.
// It never fails; missing signals become empty strings.
func Extract(rawHTML string, pageURL *url.URL) *types.ImportResult {
	return extract(rawHTML, pageURL, Options{}.withDefaults())
}

func extract(rawHTML string, pageURL *url.URL, opts Options) *types.ImportResult {
	res := &types.ImportResult{SourceURL: pageURL.String()}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return res
	}

	res.Title = firstNonEmpty(
		metaContent(doc, "og:title"),
		metaContent(doc, "twitter:title"),
		textnorm.CollapseSpaces(doc.Find("title").First().Text()),
	)
	res.Excerpt = firstNonEmpty(
		metaContent(doc, "og:description"),
		metaContent(doc, "description"),
		metaContent(doc, "twitter:description"),
	)
	res.ImageURL = resolveRef(pageURL, firstNonEmpty(
		metaContent(doc, "og:image"),
		metaContent(doc, "twitter:image"),
	))
	res.SourceURL = firstNonEmpty(
		resolveRef(pageURL, canonicalHref(doc)),
		resolveRef(pageURL, metaContent(doc, "og:url")),
		pageURL.String(),
	)

	doc.Find("script, style, noscript").Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}
	res.ContentText = readableText(contentScope(doc), opts)
	return res
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// metaContent returns the content of the first <meta> whose name or property
// equals key, ignoring case.
func metaContent(doc *goquery.Document, key string) string {
	var found string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !attrEquals(s, "property", key) && !attrEquals(s, "name", key) {
			return true
		}
		found = textnorm.CollapseSpaces(s.AttrOr("content", ""))
		return found == ""
	})
	return found
}

func attrEquals(s *goquery.Selection, attr, want string) bool {
	v, ok := s.Attr(attr)
	return ok && strings.EqualFold(strings.TrimSpace(v), want)
}

func canonicalHref(doc *goquery.Document) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, rel := range strings.Fields(s.AttrOr("rel", "")) {
			if strings.EqualFold(rel, "canonical") {
				href = strings.TrimSpace(s.AttrOr("href", ""))
				break
			}
		}
		return href == ""
	})
	return href
}

func resolveRef(base *url.URL, ref string) string {
	if ref == "" {
		return ""
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return u.String()
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// contentScope narrows to the first <article>, else <main>, else <body>,
// else the whole document.
func contentScope(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"article", "main", "body"} {
		if s := doc.Find(tag).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Selection
}

func readableText(scope *goquery.Selection, opts Options) string {
	var paragraphs []string
	scope.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		inner, err := p.Html()
		if err != nil {
			return true
		}
		text := textnorm.StripTags(inner)
		if text == "" || utf8.RuneCountInString(text) < opts.MinParagraphChars || boilerplateRe.MatchString(text) {
			return true
		}
		paragraphs = append(paragraphs, text)
		return len(paragraphs) < opts.MaxParagraphs
	})

	var text string
	if len(paragraphs) > 0 {
		text = strings.Join(paragraphs, "\n\n")
	} else if outer, err := goquery.OuterHtml(scope); err == nil {
		text = textnorm.StripTags(outer)
	}
	return truncateChars(text, opts.MaxContentChars)
}
