package importer

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"

	"cronos/textnorm"
	"cronos/types"
)

// enrich fills the optional metadata fields from readability. The core
// fields of res are left untouched.
func (imp *Importer) enrich(res *types.ImportResult, rawHTML string, pageURL *url.URL) {
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		imp.logger.Debug().Err(err).Str("url", pageURL.String()).Msg("readability enrichment skipped")
		return
	}

	res.Byline = textnorm.CollapseSpaces(article.Byline)
	res.SiteName = textnorm.CollapseSpaces(article.SiteName)
	res.Language = strings.TrimSpace(article.Language)
	if article.PublishedTime != nil && !article.PublishedTime.IsZero() {
		t := article.PublishedTime.UTC()
		res.PublishedAt = &t
	}
}
