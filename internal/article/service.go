package article

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SergeyParamoshkin/blog/internal/events"
	"github.com/SergeyParamoshkin/blog/internal/logger"
	"github.com/SergeyParamoshkin/blog/internal/model"
	"github.com/SergeyParamoshkin/blog/internal/slug"
	"github.com/SergeyParamoshkin/blog/internal/store"
	"github.com/SergeyParamoshkin/blog/internal/validate"
)

// Service owns the article lifecycle. It holds no mutable state of its own;
// concurrent writers to one article race in the store and the last write wins.
type Service struct {
	articles  store.Collection[model.Article]
	validator *validate.Validator
	events    events.Publisher
	now       func() time.Time
	newID     func() string
}

type Option func(*Service)

func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock overrides time.Now for createdAt and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(articles store.Collection[model.Article], opts ...Option) *Service {
	s := &Service{
		articles:  articles,
		validator: validate.New(),
		events:    events.Nop{},
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// List returns the metadata group of every stored article.
func (s *Service) List(ctx context.Context) ([]*model.ContentInfo, error) {
	docs, err := s.articles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	infos := make([]*model.ContentInfo, 0, len(docs))
	for i := range docs {
		if docs[i].ContentInfo == nil {
			logger.FromContext(ctx).Warnw("skipping article without content-info", "index", i)

			continue
		}
		infos = append(infos, docs[i].ContentInfo)
	}

	return infos, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Article, error) {
	doc, err := s.articles.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}

	if !doc.Complete() {
		logger.FromContext(ctx).Warnw("article is missing a group", "uuid", id,
			"content-info", doc.ContentInfo != nil, "body", doc.Body != nil)
	}

	return &doc, nil
}

// Create mints a uuid, derives the slug and writes the full record at once.
func (s *Service) Create(ctx context.Context, d model.Draft) (*model.Article, error) {
	id := s.newID()

	doc := model.Article{
		ContentInfo: &model.ContentInfo{
			Title:       d.Title,
			Description: d.Description,
			Keywords:    d.Keywords,
			Slug:        slug.Make(d.Title),
			UUID:        id,
			CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
			Author:      d.Author,
		},
		Body: &model.Body{ArticleContent: d.Content},
	}

	if err := s.validator.Struct(doc); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	if err := s.articles.Put(ctx, id, doc); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.publish(ctx, events.TypeCreated, doc.ContentInfo)

	return &doc, nil
}

// Update merges p into the stored article. uuid and createdAt are never
// taken from the patch.
func (s *Service) Update(ctx context.Context, id string, p model.Patch) (*model.Article, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := Merge(id, *current, p)

	// Only the slug carries a record rule; a malformed one written out of
	// band is re-derived from the title.
	if err := s.validator.Struct(merged); err != nil {
		logger.FromContext(ctx).Warnw("re-deriving malformed slug", "uuid", id,
			"slug", merged.ContentInfo.Slug, "error", err)
		merged.ContentInfo.Slug = slug.Make(merged.ContentInfo.Title)
	}

	if err := s.articles.Update(ctx, id, merged); err != nil {
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}

	s.publish(ctx, events.TypeUpdated, merged.ContentInfo)

	return &merged, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}

	info := current.ContentInfo
	if info == nil {
		info = &model.ContentInfo{UUID: id}
	}
	s.publish(ctx, events.TypeDeleted, info)

	return nil
}

// Merge applies p over current and returns a complete article. Missing groups
// in current are treated as empty; a missing uuid is restored from id.
func Merge(id string, current model.Article, p model.Patch) model.Article {
	var info model.ContentInfo
	if current.ContentInfo != nil {
		info = *current.ContentInfo
	}
	if info.UUID == "" {
		info.UUID = id
	}

	if p.Title != nil {
		info.Title = *p.Title
	}
	if p.Description != nil {
		info.Description = *p.Description
	}
	if p.Keywords != nil {
		info.Keywords = *p.Keywords
	}
	if p.Author != nil {
		info.Author = *p.Author
	}
	if p.Title != nil || info.Slug == "" {
		info.Slug = slug.Make(info.Title)
	}

	var body model.Body
	if current.Body != nil {
		body = *current.Body
	}
	if p.Content != nil {
		body.ArticleContent = *p.Content
	}

	return model.Article{ContentInfo: &info, Body: &body}
}

func (s *Service) publish(ctx context.Context, typ string, info *model.ContentInfo) {
	e := events.Event{Type: typ, UUID: info.UUID, Slug: info.Slug, At: s.now().UTC()}
	if err := s.events.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Errorw("publish article event", "type", typ, "uuid", info.UUID, "error", err)
	}
}
