package model

import "time"

// Article data model. It is stored as one document per article, keyed by
// ContentInfo.UUID, with the metadata and content groups kept side by side.
type Article struct {
	ContentInfo *ContentInfo `json:"content-info" bson:"content-info,omitempty"`
	Body        *Body        `json:"body" bson:"body,omitempty"`
}

// ContentInfo is the metadata group of an Article.
type ContentInfo struct {
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Keywords    []string  `json:"keywords" bson:"keywords"`
	Slug        string    `json:"slug" bson:"slug" validate:"omitempty,slug"`
	UUID        string    `json:"uuid" bson:"uuid"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	Author      string    `json:"author" bson:"author"`
}

// Body is the content group of an Article.
type Body struct {
	ArticleContent string `json:"article-content" bson:"article-content"`
}

// Complete reports whether both groups are present. Documents written by this
// service are always complete; anything else was written out of band.
func (a *Article) Complete() bool {
	return a != nil && a.ContentInfo != nil && a.Body != nil
}
