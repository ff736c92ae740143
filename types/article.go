package types

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ArticleStatus is the editorial state of a stored article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// Valid reports whether s is a known status.
func (s ArticleStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ImportResult holds the fields extracted from a fetched article page.
// Every field is best effort; a missing signal is an empty string.
type ImportResult struct {
	SourceURL   string `json:"sourceUrl"`
	Title       string `json:"title"`
	Excerpt     string `json:"excerpt"`
	ImageURL    string `json:"imageUrl"`
	ContentText string `json:"contentText"`

	// Optional metadata filled by readability enrichment.
	Byline      string     `json:"byline,omitempty"`
	SiteName    string     `json:"siteName,omitempty"`
	Language    string     `json:"language,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Article is the record kept by the article store.
type Article struct {
	ID          string        `json:"id" bson:"_id"`
	Slug        string        `json:"slug" bson:"slug"`
	Title       string        `json:"title" bson:"title"`
	Excerpt     string        `json:"excerpt,omitempty" bson:"excerpt,omitempty"`
	ImageURL    string        `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	SourceURL   string        `json:"sourceUrl,omitempty" bson:"source_url,omitempty"`
	Author      string        `json:"author,omitempty" bson:"author,omitempty"`
	Content     string        `json:"content" bson:"content"`
	ContentText string        `json:"contentText" bson:"content_text"`
	Status      ArticleStatus `json:"status" bson:"status"`
	ImportJobID string        `json:"importJobId,omitempty" bson:"import_job_id,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updated_at"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty" bson:"published_at,omitempty"`
}

// Text returns the most complete plain text available for the article.
// Priority: ContentText > Content > Excerpt > Title.
func (a *Article) Text() string {
	switch {
	case a.ContentText != "":
		return a.ContentText
	case a.Content != "":
		return a.Content
	case a.Excerpt != "":
		return a.Excerpt
	}
	return a.Title
}

// GenerateID creates a short, stable ID by hashing the provided input.
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

const maxSlugLen = 80

// Slugify turns a title into a lowercase ASCII slug: accents are folded,
// runs of other characters become a single dash.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}

// NewArticleFromImport builds a draft article from an import result.
// content is the display HTML; callers format it before storing.
func NewArticleFromImport(res *ImportResult, content string, now time.Time) *Article {
	id := GenerateID(res.SourceURL)
	slug := Slugify(res.Title)
	if slug == "" {
		slug = id
	}
	return &Article{
		ID:          id,
		Slug:        slug,
		Title:       res.Title,
		Excerpt:     res.Excerpt,
		ImageURL:    res.ImageURL,
		SourceURL:   res.SourceURL,
		Author:      res.Byline,
		Content:     content,
		ContentText: res.ContentText,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
