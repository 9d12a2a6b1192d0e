package articlerequest

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/validate"
)

var validator = validate.New()

// CreateRequest is the payload of POST /blog/articles. Server-side fields
// (slug, uuid, createdAt) are not part of it and are ignored if sent.
type CreateRequest struct {
	ContentInfo *CreateContentInfo `json:"content-info" validate:"required"`
	Body        *CreateBody        `json:"body" validate:"required"`
}

type CreateContentInfo struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Author      string   `json:"author"`
}

type CreateBody struct {
	ArticleContent *string `json:"article-content" validate:"required"`
}

// Bind runs after decoding. Validation errors are *validate.Error.
func (c *CreateRequest) Bind(r *http.Request) error {
	return validator.Struct(c)
}

func (c *CreateRequest) Draft() model.Draft {
	keywords := c.ContentInfo.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	return model.Draft{
		Title:       c.ContentInfo.Title,
		Description: c.ContentInfo.Description,
		Keywords:    keywords,
		Author:      c.ContentInfo.Author,
		Content:     *c.Body.ArticleContent,
	}
}

// PatchRequest is the payload of PATCH /blog/articles/{id}. Every field is
// optional; omitted or null fields keep their stored value.
type PatchRequest struct {
	ContentInfo *PatchContentInfo `json:"content-info"`
	Body        *PatchBody        `json:"body"`
}

type PatchContentInfo struct {
	Title       *string   `json:"title" validate:"omitempty,notblank"`
	Description *string   `json:"description"`
	Keywords    *[]string `json:"keywords"`
	Author      *string   `json:"author"`
}

type PatchBody struct {
	ArticleContent *string `json:"article-content"`
}

func (p *PatchRequest) Bind(r *http.Request) error {
	return validator.Struct(p)
}

func (p *PatchRequest) Patch() model.Patch {
	var patch model.Patch

	if p.ContentInfo != nil {
		patch.Title = p.ContentInfo.Title
		patch.Description = p.ContentInfo.Description
		patch.Keywords = p.ContentInfo.Keywords
		patch.Author = p.ContentInfo.Author
	}
	if p.Body != nil {
		patch.Content = p.Body.ArticleContent
	}

	return patch
}
