package orchestrator

import (
	"time"

	"cronos/textnorm"
	"cronos/types"
)

// NewDraft turns an import result into a draft article whose display
// content is the reflowed body text.
func NewDraft(res *types.ImportResult, now time.Time) *types.Article {
	return types.NewArticleFromImport(res, textnorm.FormatArticleContent(res.ContentText), now)
}
