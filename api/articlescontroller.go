package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cronos/store"
	"cronos/textnorm"
	"cronos/types"
)

type createArticleRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	ImageURL  string `json:"imageUrl"`
	SourceURL string `json:"sourceUrl"`
	Author    string `json:"author"`
	Content   string `json:"content"`
}

type updateArticleRequest struct {
	Title    *string              `json:"title"`
	Slug     *string              `json:"slug"`
	Excerpt  *string              `json:"excerpt"`
	ImageURL *string              `json:"imageUrl"`
	Author   *string              `json:"author"`
	Content  *string              `json:"content"`
	Status   *types.ArticleStatus `json:"status"`
}

func (s *server) registerArticleRoutes(g *gin.RouterGroup) {
	a := g.Group("/articles")
	a.POST("", s.handleCreateArticle)
	a.GET("", s.handleListArticles)
	a.GET("/:id", s.handleGetArticle)
	a.PUT("/:id", s.handleUpdateArticle)
	a.POST("/:id/publish", s.handlePublishArticle)
}

// applyContent stores content the way the editor-save path does: plain text
// for search and comparison, reflowed paragraphs for display.
func applyContent(a *types.Article, content string) {
	a.ContentText = textnorm.StripHTML(content)
	a.Content = textnorm.FormatArticleContent(content)
}

func (s *server) handleCreateArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	id := uuid.NewString()
	if req.SourceURL != "" {
		id = types.GenerateID(req.SourceURL)
	}
	slug := types.Slugify(req.Slug)
	if slug == "" {
		slug = types.Slugify(req.Title)
	}
	if slug == "" {
		slug = id
	}

	now := s.now().UTC()
	a := &types.Article{
		ID:        id,
		Slug:      slug,
		Title:     strings.TrimSpace(req.Title),
		Excerpt:   req.Excerpt,
		ImageURL:  req.ImageURL,
		SourceURL: req.SourceURL,
		Author:    req.Author,
		Status:    types.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyContent(a, req.Content)

	if err := store.CreateUnique(c.Request.Context(), s.Store, a); err != nil {
		if errors.Is(err, store.ErrConflict) {
			errorJSON(c, http.StatusConflict, "an article for this source already exists")
			return
		}
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to create article")
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *server) handleListArticles(c *gin.Context) {
	filter := store.ListFilter{Status: types.ArticleStatus(c.Query("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		errorJSON(c, http.StatusBadRequest, "unknown status "+string(filter.Status))
		return
	}

	articles, err := s.Store.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to list articles")
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "count": len(articles)})
}

// lookupArticle writes the error response itself and returns nil on failure.
func (s *server) lookupArticle(c *gin.Context) *types.Article {
	a, err := store.Lookup(c.Request.Context(), s.Store, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		errorJSON(c, http.StatusNotFound, "article not found")
		return nil
	}
	if err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to load article")
		return nil
	}
	return a
}

func (s *server) handleGetArticle(c *gin.Context) {
	if a := s.lookupArticle(c); a != nil {
		c.JSON(http.StatusOK, a)
	}
}

func (s *server) handleUpdateArticle(c *gin.Context) {
	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	a := s.lookupArticle(c)
	if a == nil {
		return
	}

	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		slug := types.Slugify(*req.Slug)
		if slug == "" {
			errorJSON(c, http.StatusBadRequest, "slug must contain letters or digits")
			return
		}
		a.Slug = slug
	}
	if req.Excerpt != nil {
		a.Excerpt = *req.Excerpt
	}
	if req.ImageURL != nil {
		a.ImageURL = *req.ImageURL
	}
	if req.Author != nil {
		a.Author = *req.Author
	}
	if req.Content != nil {
		applyContent(a, *req.Content)
	}
	if req.Status != nil {
		// Publishing goes through the duplicate check.
		if *req.Status != types.StatusDraft {
			errorJSON(c, http.StatusBadRequest, "status can only be set to draft; use /publish")
			return
		}
		a.Status = types.StatusDraft
		a.PublishedAt = nil
	}
	a.UpdatedAt = s.now().UTC()

	if err := s.Store.Update(c.Request.Context(), a); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			errorJSON(c, http.StatusNotFound, "article not found")
		case errors.Is(err, store.ErrConflict):
			errorJSON(c, http.StatusConflict, "slug already in use")
		default:
			_ = c.Error(err)
			errorJSON(c, http.StatusInternalServerError, "failed to update article")
		}
		return
	}
	c.JSON(http.StatusOK, a)
}

func (s *server) handlePublishArticle(c *gin.Context) {
	ctx := c.Request.Context()
	a := s.lookupArticle(c)
	if a == nil {
		return
	}
	if a.Status == types.StatusPublished {
		c.JSON(http.StatusOK, a)
		return
	}

	if s.Dedup != nil && c.Query("force") != "true" {
		dup, err := s.Dedup.CheckForDuplicates(ctx, a)
		if err != nil {
			_ = c.Error(err)
			errorJSON(c, http.StatusInternalServerError, "duplicate check failed")
			return
		}
		if dup.IsDuplicate {
			s.Metrics.IncrementDuplicatesFlagged()
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":     "article looks like a duplicate of " + dup.MatchingID,
				"duplicate": dup,
			})
			return
		}
	}

	now := s.now().UTC()
	a.Status = types.StatusPublished
	a.PublishedAt = &now
	a.UpdatedAt = now
	if err := s.Store.Update(ctx, a); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to publish article")
		return
	}

	if s.Dedup != nil {
		if err := s.Dedup.MarkPublished(ctx, a); err != nil {
			s.Logger.Warn().Err(err).Str("article_id", a.ID).Msg("failed to record published fingerprint")
		}
	}
	s.Metrics.IncrementArticlesPublished()
	c.JSON(http.StatusOK, a)
}
